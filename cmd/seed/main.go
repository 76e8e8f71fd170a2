package main

import (
	"flag"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
)

type seedProduct struct {
	Name     string
	Price    string
	Image    string
	Category string
}

var catalog = []seedProduct{
	{Name: "Classic T-Shirt", Price: "15.99", Image: "tshirtblack.jpeg", Category: "Shirts"},
	{Name: "White T-Shirt", Price: "18.99", Image: "shirt.jpeg", Category: "Shirts"},
	{Name: "Print T-shirt", Price: "22.67", Image: "product1.jpeg", Category: "Shirts"},
	{Name: "Polo Black Shirt", Price: "19.99", Image: "poloblack.jpeg", Category: "Shirts"},
	{Name: "Button-up", Price: "22.99", Image: "buttonup1.jpeg", Category: "Shirts"},
	{Name: "Button-up Black", Price: "22.99", Image: "buttonup2.jpeg", Category: "Shirts"},
	{Name: "Leather Jacket", Price: "98.77", Image: "product4.jpeg", Category: "Jackets"},
	{Name: "Blue Jeans", Price: "39.99", Image: "bluejeans.jpeg", Category: "Jeans"},
	{Name: "Stylish Jeans", Price: "42.99", Image: "jeans.jpeg", Category: "Jeans"},
	{Name: "Black Jeans", Price: "33.90", Image: "product2.jpeg", Category: "Jeans"},
	{Name: "Cargo Black Pants", Price: "34.99", Image: "cargoblack.jpeg", Category: "Pants"},
	{Name: "Cargo Brown Pants", Price: "34.99", Image: "cargobrown.jpeg", Category: "Pants"},
	{Name: "Sports Shoes Black", Price: "65.70", Image: "product3.jpeg", Category: "Shoes"},
	{Name: "Sports Shoes White", Price: "59.99", Image: "shoes.jpeg", Category: "Shoes"},
	{Name: "Airforce Shoes", Price: "64.99", Image: "airforceshoes.jpeg", Category: "Shoes"},
	{Name: "Brown Chelsea Boots", Price: "74.99", Image: "brownchelsea.jpeg", Category: "Shoes"},
	{Name: "Black Chelsea Boots", Price: "74.99", Image: "blackchelsea.jpeg", Category: "Shoes"},
	{Name: "Leather Shoes", Price: "84.99", Image: "leathershoes.jpeg", Category: "Shoes"},
	{Name: "Leather Shoes Brown", Price: "84.99", Image: "leathershoesbrown.jpeg", Category: "Shoes"},
}

func main() {
	var stock int
	var imagePrefix string
	flag.IntVar(&stock, "stock", 10, "每个商品的初始库存")
	flag.StringVar(&imagePrefix, "image-prefix", "/static/images/", "商品图片路径前缀")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	created := 0
	for _, item := range catalog {
		var count int64
		if err := models.DB.Model(&models.Product{}).Where("name = ?", item.Name).Count(&count).Error; err != nil {
			stdLog.Printf("Failed to check product %s: %v", item.Name, err)
			continue
		}
		if count > 0 {
			stdLog.Printf("Product already exists: %s", item.Name)
			continue
		}
		price, err := models.NewMoneyFromString(item.Price)
		if err != nil {
			stdLog.Printf("Invalid price for %s: %v", item.Name, err)
			continue
		}
		product := models.Product{
			Name:     item.Name,
			Price:    price,
			Image:    imagePrefix + item.Image,
			Category: item.Category,
			Stock:    stock,
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.Name, err)
			continue
		}
		created++
	}
	logger.Infow("seed_completed", "created", created, "total", len(catalog))
}
