package service

import (
	"context"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
)

type CartService struct {
	cartDao    *dao.CartDao
	productDao *dao.ProductDao
	pricing    Pricing
}

func NewCartService(cartDao *dao.CartDao, productDao *dao.ProductDao, pricing Pricing) *CartService {
	return &CartService{
		cartDao:    cartDao,
		productDao: productDao,
		pricing:    pricing,
	}
}

// CartLine 购物车行 + 商品实时数据
type CartLine struct {
	Item    *model.CartItem `json:"item"`
	Product *model.Product  `json:"product"`
}

// CartView 购物车内容与结算预估
type CartView struct {
	Lines        []CartLine `json:"lines"`
	Subtotal     int64      `json:"subtotal"`
	ShippingCost int64      `json:"shipping_cost"`
	Tax          int64      `json:"tax"`
	Total        int64      `json:"total"`
}

// AddItem 加购：同商品合并数量；合并后的总数量不能超过当前库存
func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int32, customNote string) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, ErrValidation
	}

	product, err := s.productDao.GetProductByID(ctx, productID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrProductUnavailable
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductUnavailable
	}
	if customNote != "" && !product.AllowCustomNote {
		return nil, ErrNoteNotAllowed
	}

	// 已在购物车的商品合并数量而不是重复建行
	existing, err := s.cartDao.GetByUserAndProduct(ctx, userID, productID)
	if err != nil && !dao.IsNotFound(err) {
		return nil, err
	}

	desired := quantity
	if existing != nil {
		desired += existing.Quantity
	}
	// 库存校验针对合并后的期望数量
	if product.Inventory < desired {
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		updates := map[string]interface{}{"quantity": desired}
		if customNote != "" {
			updates["custom_note"] = customNote
		}
		if err := s.cartDao.UpdateItem(ctx, existing.ID, updates); err != nil {
			return nil, err
		}
		existing.Quantity = desired
		if customNote != "" {
			existing.CustomNote = customNote
		}
		return existing, nil
	}

	item := &model.CartItem{
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
		CustomNote: customNote,
	}
	if err := s.cartDao.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity 数量<=0时删除该行，否则重新校验库存
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int32) error {
	item, err := s.cartDao.GetByIDForUser(ctx, itemID, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	if quantity <= 0 {
		return s.cartDao.Delete(ctx, item.ID)
	}

	product, err := s.productDao.GetProductByID(ctx, item.ProductID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrProductUnavailable
		}
		return err
	}
	if product.Inventory < quantity {
		return ErrInsufficientStock
	}

	return s.cartDao.UpdateItem(ctx, item.ID, map[string]interface{}{"quantity": quantity})
}

// RemoveItem 删除单行，只能删自己的
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	item, err := s.cartDao.GetByIDForUser(ctx, itemID, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.cartDao.Delete(ctx, item.ID)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.cartDao.ClearByUser(ctx, userID)
}

// GetCart 购物车内容 + 按当前价格的结算预估（与下单同一套运费/税规则）
func (s *CartService) GetCart(ctx context.Context, userID int64) (*CartView, error) {
	items, err := s.cartDao.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Lines: make([]CartLine, 0, len(items))}
	for _, item := range items {
		product, err := s.productDao.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if dao.IsNotFound(err) {
				// 商品已删除的行仍展示，结算时会报错
				view.Lines = append(view.Lines, CartLine{Item: item})
				continue
			}
			return nil, err
		}
		view.Lines = append(view.Lines, CartLine{Item: item, Product: product})
		view.Subtotal += product.Price * int64(item.Quantity)
	}

	view.ShippingCost = s.pricing.Shipping(view.Subtotal)
	view.Tax = s.pricing.Tax(view.Subtotal)
	view.Total = view.Subtotal + view.ShippingCost + view.Tax
	return view, nil
}
