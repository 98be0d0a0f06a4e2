package main

import (
	"log"
	"time"

	"ai-booking-be/internal/config"
	"ai-booking-be/internal/constant"
	"ai-booking-be/internal/model"
	"ai-booking-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Seeds the demo identity and a first chat with the welcome message so a
// fresh install opens onto a usable conversation.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🌱 Seeding demo data\n")

	var user model.User
	err = db.Where("email = ?", cfg.Demo.Email).First(&user).Error
	if err == nil {
		color.Yellow("Demo user already exists: %s", user.Email)
	} else {
		user = model.User{
			Id:        uuid.New(),
			Email:     cfg.Demo.Email,
			Name:      cfg.Demo.Name,
			Phone:     cfg.Demo.Phone,
			CreatedAt: time.Now(),
		}
		if err := db.Create(&user).Error; err != nil {
			color.Red("Failed to create demo user: %v", err)
			return
		}
		color.Green("Created demo user %s (%s)", user.Name, user.Email)
	}

	var count int64
	db.Model(&model.Chat{}).Where("user_id = ?", user.Id).Count(&count)
	if count > 0 {
		color.Yellow("Demo user already has %d chat(s), skipping", count)
		return
	}

	chat := model.Chat{
		Id:        uuid.New(),
		UserId:    user.Id,
		Title:     "My first booking",
		CreatedAt: time.Now(),
	}
	if err := db.Create(&chat).Error; err != nil {
		color.Red("Failed to create chat: %v", err)
		return
	}

	welcome := model.Message{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.MessageRoleAssistant,
		Content:   constant.ChatWelcomeMessage,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&welcome).Error; err != nil {
		color.Red("Failed to create welcome message: %v", err)
		return
	}

	color.Green("Seeded chat %s with welcome message", chat.Id)
}
