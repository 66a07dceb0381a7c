package service

import (
	"strings"

	"health-connect-demo/backend/internal/models"
	apperrors "health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/logger"

	"gorm.io/gorm"
)

// RemedyService serves the home remedy catalog
type RemedyService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewRemedyService creates a remedy service
func NewRemedyService(db *gorm.DB, log *logger.Logger) *RemedyService {
	return &RemedyService{db: db, log: log}
}

// Search returns remedies matching a free-text term and optional condition tag
func (s *RemedyService) Search(term, condition string) ([]models.HomeRemedy, error) {
	if s.db == nil {
		return nil, apperrors.NewConfigurationError("The remedy catalog is unavailable: database is not configured")
	}

	var remedies []models.HomeRemedy

	query := s.db.Order("effectiveness_rating desc")

	if term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(conditions) LIKE ?",
			like, like, like,
		)
	}

	if condition != "" {
		query = query.Where("LOWER(conditions) LIKE ?", "%"+strings.ToLower(condition)+"%")
	}

	if err := query.Find(&remedies).Error; err != nil {
		return nil, err
	}
	return remedies, nil
}

// Get fetches a single remedy
func (s *RemedyService) Get(id uint) (*models.HomeRemedy, error) {
	if s.db == nil {
		return nil, apperrors.NewConfigurationError("The remedy catalog is unavailable: database is not configured")
	}

	var remedy models.HomeRemedy
	if err := s.db.First(&remedy, id).Error; err != nil {
		return nil, err
	}
	return &remedy, nil
}

// Seed inserts the default catalog when the table is empty
func (s *RemedyService) Seed() error {
	var count int64
	if err := s.db.Model(&models.HomeRemedy{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	s.log.Info("Seeding home remedy catalog", "count", len(defaultRemedies))
	return s.db.Create(&defaultRemedies).Error
}

var defaultRemedies = []models.HomeRemedy{
	{
		Title:               "Honey and Lemon Tea",
		Description:         "A soothing warm drink for sore throat and cough relief.",
		Ingredients:         "1 tbsp honey\n1/2 lemon, juiced\n1 cup warm water",
		Instructions:        "Squeeze the lemon juice into warm water\nStir in the honey until dissolved\nSip slowly while warm, up to three times a day",
		Conditions:          "sore throat, cough, cold",
		SafetyNotes:         "Do not give honey to children under one year old.",
		DifficultyLevel:     "easy",
		PreparationTime:     "5 minutes",
		EffectivenessRating: 4.2,
	},
	{
		Title:               "Ginger Tea",
		Description:         "Fresh ginger steeped in hot water to ease nausea and aid digestion.",
		Ingredients:         "1 inch fresh ginger root\n2 cups water\nHoney to taste",
		Instructions:        "Slice the ginger thinly\nSimmer in water for 10 minutes\nStrain, sweeten with honey and drink warm",
		Conditions:          "nausea, indigestion, motion sickness",
		SafetyNotes:         "Large amounts may interact with blood thinners.",
		DifficultyLevel:     "easy",
		PreparationTime:     "15 minutes",
		EffectivenessRating: 4.5,
	},
	{
		Title:               "Saline Gargle",
		Description:         "Warm salt water gargle to reduce throat inflammation.",
		Ingredients:         "1/2 tsp salt\n1 cup warm water",
		Instructions:        "Dissolve the salt in warm water\nGargle for 30 seconds and spit\nRepeat every few hours as needed",
		Conditions:          "sore throat, mouth ulcers",
		SafetyNotes:         "Do not swallow. Not suitable for young children who cannot gargle.",
		DifficultyLevel:     "easy",
		PreparationTime:     "2 minutes",
		EffectivenessRating: 3.9,
	},
	{
		Title:               "Steam Inhalation",
		Description:         "Inhaling warm steam to loosen congestion and relieve sinus pressure.",
		Ingredients:         "1 bowl of hot water\nTowel\nOptional: 2 drops eucalyptus oil",
		Instructions:        "Pour hot (not boiling) water into a bowl\nLean over the bowl with a towel draped over your head\nBreathe deeply through the nose for 5 to 10 minutes",
		Conditions:          "congestion, sinusitis, cold",
		SafetyNotes:         "Keep a safe distance from the water to avoid scalding. Supervise children closely.",
		DifficultyLevel:     "medium",
		PreparationTime:     "10 minutes",
		EffectivenessRating: 4.0,
	},
	{
		Title:               "Cold Compress",
		Description:         "A cold pack applied to reduce swelling and dull localized pain.",
		Ingredients:         "Ice cubes or frozen peas\nThin towel",
		Instructions:        "Wrap the ice in the towel\nApply to the affected area for 15 minutes\nRest 45 minutes before reapplying",
		Conditions:          "sprain, swelling, headache, bruise",
		SafetyNotes:         "Never apply ice directly to bare skin.",
		DifficultyLevel:     "easy",
		PreparationTime:     "2 minutes",
		EffectivenessRating: 4.1,
	},
	{
		Title:               "Chamomile Tea",
		Description:         "A calming herbal tea that supports sleep and eases mild anxiety.",
		Ingredients:         "1 chamomile tea bag or 1 tbsp dried flowers\n1 cup hot water",
		Instructions:        "Steep the chamomile in hot water for 5 minutes\nStrain if using loose flowers\nDrink 30 minutes before bedtime",
		Conditions:          "insomnia, anxiety, indigestion",
		SafetyNotes:         "Avoid if allergic to ragweed family plants.",
		DifficultyLevel:     "easy",
		PreparationTime:     "7 minutes",
		EffectivenessRating: 3.8,
	},
}
