package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao/mysql"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/app"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/utils"
	"gorm.io/gorm"
)

// 开发/演示环境数据初始化工具
// 用法: go run ./cmd/tools -admin-email admin@example.com -admin-password xxx

func main() {
	adminEmail := flag.String("admin-email", "admin@bossinbaskets.com", "管理员邮箱")
	adminPassword := flag.String("admin-password", "", "管理员密码（必填）")
	flag.Parse()

	if *adminPassword == "" {
		fmt.Println("必须指定 -admin-password")
		os.Exit(1)
	}

	cfg := app.BootstrapApp()

	db, err := mysql.InitDB(&cfg.Database.Mysql)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}
	if err := mysql.AutoMigrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	fmt.Println("开始初始化数据...")

	if err := seedAdmin(db, *adminEmail, *adminPassword); err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}

	if err := seedCatalog(db); err != nil {
		log.Fatalf("创建演示商品失败: %v", err)
	}

	fmt.Println("数据初始化完成")
}

func seedAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Printf("管理员 %s 已存在，跳过\n", email)
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	fmt.Printf("管理员创建成功: %s (id=%d)\n", email, admin.ID)
	return nil
}

func seedCatalog(db *gorm.DB) error {
	categories := []model.Category{
		{Name: "Birthday Baskets", Slug: "birthday-baskets", IsActive: true, SortOrder: 1},
		{Name: "Holiday Baskets", Slug: "holiday-baskets", IsActive: true, SortOrder: 2},
		{Name: "Gourmet Baskets", Slug: "gourmet-baskets", IsActive: true, SortOrder: 3},
	}
	for i := range categories {
		var existing model.Category
		err := db.Where("slug = ?", categories[i].Slug).First(&existing).Error
		if err == nil {
			categories[i] = existing
			fmt.Printf("分类 %s 已存在，跳过\n", existing.Slug)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&categories[i]).Error; err != nil {
			return err
		}
		fmt.Printf("分类创建成功: %s (id=%d)\n", categories[i].Slug, categories[i].ID)
	}

	compareAt := int64(12999)
	products := []model.Product{
		{
			Name:            "Classic Birthday Basket",
			Slug:            "classic-birthday-basket",
			Description:     "Chocolates, sparkling cider and a birthday card.",
			Price:           6999,
			CategoryID:      categories[0].ID,
			Images:          model.StringList{"https://cdn.bossinbaskets.com/img/birthday-classic.jpg"},
			Inventory:       120,
			IsActive:        true,
			Tags:            model.StringList{"birthday", "bestseller"},
			AllowCustomNote: true,
		},
		{
			Name:            "Deluxe Holiday Basket",
			Slug:            "deluxe-holiday-basket",
			Description:     "Mulled wine spices, cookies and seasonal treats.",
			Price:           10999,
			CompareAtPrice:  &compareAt,
			CategoryID:      categories[1].ID,
			Images:          model.StringList{"https://cdn.bossinbaskets.com/img/holiday-deluxe.jpg"},
			Inventory:       60,
			IsActive:        true,
			Tags:            model.StringList{"holiday", "deluxe"},
			AllowCustomNote: true,
		},
		{
			Name:        "Gourmet Cheese Basket",
			Slug:        "gourmet-cheese-basket",
			Description: "A selection of artisan cheeses and crackers.",
			Price:       8999,
			CategoryID:  categories[2].ID,
			Images:      model.StringList{"https://cdn.bossinbaskets.com/img/gourmet-cheese.jpg"},
			Inventory:   45,
			IsActive:    true,
			Tags:        model.StringList{"gourmet", "cheese"},
		},
	}
	for i := range products {
		var existing model.Product
		err := db.Where("slug = ?", products[i].Slug).First(&existing).Error
		if err == nil {
			fmt.Printf("商品 %s 已存在，跳过\n", existing.Slug)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
		fmt.Printf("商品创建成功: %s (id=%d)\n", products[i].Slug, products[i].ID)
	}
	return nil
}
