package model

// Address 收货地址值对象，嵌入到用户默认地址与订单快照里
type Address struct {
	FullName   string `gorm:"size:100" json:"full_name"`
	Phone      string `gorm:"size:30" json:"phone"`
	Line1      string `gorm:"size:255" json:"line1"`
	Line2      string `gorm:"size:255" json:"line2"`
	City       string `gorm:"size:100" json:"city"`
	State      string `gorm:"size:100" json:"state"`
	PostalCode string `gorm:"size:20" json:"postal_code"`
	Country    string `gorm:"size:100" json:"country"`
}

func (a Address) IsZero() bool {
	return a == Address{}
}
