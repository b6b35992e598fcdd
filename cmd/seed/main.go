// Command seed provisions the access codes and a first admin account so a
// fresh install can log in. Safe to re-run: existing rows are left alone.
package main

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/config"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/db"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
)

func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.AccessCode{},
		&model.User{},
		&model.Patient{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	codes := []model.AccessCode{
		{Code: getEnv("SEED_ADMIN_CODE", "ADMIN-0001"), Role: model.RoleAdmin, Active: true},
		{Code: getEnv("SEED_MEDICO_CODE", "MEDICO-0001"), Role: model.RoleMedico, Active: true},
	}
	for i := range codes {
		if err := ensureCode(gormDB, &codes[i]); err != nil {
			log.Fatalf("seed access code %q: %v", codes[i].Code, err)
		}
	}

	adminUser := getEnv("SEED_ADMIN_USER", "admin")
	adminPass := getEnv("SEED_ADMIN_PASSWORD", "")
	if adminPass == "" {
		log.Println("SEED_ADMIN_PASSWORD not set, skipping admin user")
		return
	}
	if err := ensureAdmin(gormDB, adminUser, adminPass, codes[0].ID); err != nil {
		log.Fatalf("seed admin user: %v", err)
	}
	log.Printf("seed complete, admin user %q ready", adminUser)
}

func ensureCode(gormDB *gorm.DB, code *model.AccessCode) error {
	var existing model.AccessCode
	err := gormDB.Where("codigo = ?", code.Code).First(&existing).Error
	if err == nil {
		code.ID = existing.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return gormDB.Create(code).Error
}

func ensureAdmin(gormDB *gorm.DB, username, password string, codeID uint) error {
	var existing model.User
	err := gormDB.Where("nombre_usuario = ?", username).First(&existing).Error
	if err == nil {
		log.Printf("user %q already exists, leaving as is", username)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return gormDB.Create(&model.User{
		Username:     username,
		PasswordHash: string(hash),
		AccessCodeID: codeID,
	}).Error
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
