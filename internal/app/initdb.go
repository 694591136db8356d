package app

import (
	"errors"
	"time"

	"github.com/talkincode/gamestore/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// checkSuper creates the default admin account on first run.
func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "admin"

	var user domain.User
	err := a.gormDB.Where("username = ?", superUsername).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin := domain.User{
			Username:  superUsername,
			IsAdmin:   true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := admin.SetPassword(defaultPassword); err != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(err))
			return
		}
		if err := a.gormDB.Create(&admin).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("username", superUsername))
		}
	case err != nil:
		zap.L().Error("failed to query admin account", zap.Error(err))
	}
}

// checkCategories seeds the fixed category dictionary.
func (a *Application) checkCategories() {
	for _, name := range domain.AllowedCategories {
		var count int64
		a.gormDB.Model(&domain.Category{}).Where("name = ?", name).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&domain.Category{Name: name}).Error; err != nil {
				zap.L().Error("failed to create category", zap.String("name", name), zap.Error(err))
			}
		}
	}
}

// checkProducts seeds sample catalog entries when the table is empty.
func (a *Application) checkProducts() {
	var count int64
	if err := a.gormDB.Model(&domain.Product{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	sample := []domain.Product{
		{Title: "XBOX SERIES X 2TB", Price: 17000, Img: "/static/img/Imagenes/series x especial.png", Category: "Consolas"},
		{Title: "ZOMBIES GAME", Price: 450, Img: "/static/img/Imagenes/gta6.png", Category: "Juegos"},
		{Title: "AUDIFONOS GAMER", Price: 760, Img: "/static/img/Imagenes/Audifonos_Gamer.jpg", Category: "Accesorios"},
	}
	for _, p := range sample {
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create sample product", zap.String("title", p.Title), zap.Error(err))
		} else {
			zap.L().Info("initialized sample product", zap.String("title", p.Title))
		}
	}
}
