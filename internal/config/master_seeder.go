package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strconv"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/core/domain"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed/visa_types.yaml
var visaTypesYAML []byte

// visaTypeSeed mirrors one entry of seed/visa_types.yaml
type visaTypeSeed struct {
	Code           string   `yaml:"code"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Requirements   string   `yaml:"requirements"`
	ProcessingTime string   `yaml:"processing_time"`
	Fee            *float64 `yaml:"fee"`
}

// DefaultSettings are created on first start; admins change them at runtime
var DefaultSettings = []models.Setting{
	{Category: domain.SettingGeneral, Key: "site_name", Value: "Visa Consultancy", Description: "Name shown in e-mails"},
	{Category: domain.SettingGeneral, Key: "contact_email", Value: "support@example.com", Description: "Public support address"},
	{Category: domain.SettingEmail, Key: "notifications_enabled", Value: "true", Description: "Send status e-mails to applicants"},
	{Category: domain.SettingEmail, Key: "reminders_enabled", Value: "true", Description: "Send appointment reminders the day before"},
	{Category: domain.SettingSecurity, Key: "access_token_minutes", Value: "15", Description: "Informational; set ACCESS_TOKEN_MINUTES to change"},
	{Category: domain.SettingSecurity, Key: "max_upload_mb", Value: "5", Description: "Largest accepted document upload"},
	{Category: domain.SettingLogging, Key: "retention_days", Value: "365", Description: "How long admin logs are kept"},
}

// SeedMasterData seeds visa types and default settings
func SeedMasterData(db *gorm.DB) error {
	if err := seedVisaTypes(db); err != nil {
		return err
	}

	if err := seedSettings(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

// LoadVisaTypes parses the embedded visa catalogue
func LoadVisaTypes() ([]models.VisaType, error) {
	var seeds []visaTypeSeed
	if err := yaml.Unmarshal(visaTypesYAML, &seeds); err != nil {
		return nil, fmt.Errorf("parse visa types: %w", err)
	}

	visaTypes := make([]models.VisaType, 0, len(seeds))
	for i, s := range seeds {
		if s.Code == "" || s.Name == "" {
			return nil, fmt.Errorf("visa type #%d: code and name are required", i+1)
		}
		visaTypes = append(visaTypes, models.VisaType{
			Code:           s.Code,
			Name:           s.Name,
			Description:    s.Description,
			Requirements:   s.Requirements,
			ProcessingTime: s.ProcessingTime,
			Fee:            s.Fee,
		})
	}
	return visaTypes, nil
}

func seedVisaTypes(db *gorm.DB) error {
	visaTypes, err := LoadVisaTypes()
	if err != nil {
		return err
	}

	for _, vt := range visaTypes {
		var existing models.VisaType
		err := db.Where("code = ?", vt.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&vt).Error; err != nil {
			return err
		}
		log.Printf("   Created visa_type: %s", vt.Name)
	}
	return nil
}

func seedSettings(db *gorm.DB) error {
	for _, s := range DefaultSettings {
		var existing models.Setting
		err := db.Where("category = ? AND setting_key = ?", s.Category, s.Key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		setting := s
		if err := db.Create(&setting).Error; err != nil {
			return err
		}
		log.Printf("   Created setting: %s.%s = %s", s.Category, s.Key, strconv.Quote(s.Value))
	}
	return nil
}
