package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/httperr"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&User{}, &Restaurant{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestOwnerRequiresShopType(t *testing.T) {
	db := openTestDB(t)

	owner := User{
		Email:        "owner@example.com",
		Name:         "Olive",
		PasswordHash: "x",
		Role:         RoleOwner,
	}

	err := db.Create(&owner).Error
	if !httperr.IsBusiness(err, "shop_type_required") {
		t.Fatalf("err = %v, want shop_type_required", err)
	}
}

func TestStaffProfileFieldsCleared(t *testing.T) {
	db := openTestDB(t)

	staff := User{
		Email:        "staff@example.com",
		Name:         "Sam",
		PasswordHash: "x",
		Role:         RoleStaff,
		PhoneNumber:  "555-0100",
		ShopType:     "pizzeria",
	}

	if err := db.Create(&staff).Error; err != nil {
		t.Fatalf("create staff: %v", err)
	}

	var saved User
	if err := db.First(&saved, staff.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if saved.PhoneNumber != "" || saved.ShopType != "" {
		t.Fatalf("owner profile fields survived on staff row: %+v", saved)
	}
}

func TestUnknownRoleRejected(t *testing.T) {
	db := openTestDB(t)

	u := User{
		Email:        "admin@example.com",
		Name:         "Ada",
		PasswordHash: "x",
		Role:         Role("admin"),
	}

	err := db.Create(&u).Error
	if !httperr.IsBusiness(err, "invalid_role") {
		t.Fatalf("err = %v, want invalid_role", err)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	db := openTestDB(t)

	first := User{Email: "dup@example.com", Name: "A", PasswordHash: "x", Role: RoleStaff}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create first: %v", err)
	}

	second := User{Email: "dup@example.com", Name: "B", PasswordHash: "x", Role: RoleStaff}
	if err := db.Create(&second).Error; err == nil {
		t.Fatal("expected unique constraint error, got nil")
	}
}
