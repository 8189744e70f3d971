package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
)

// Глобальное подключение к БД
var DB *gorm.DB

// LoadEnv подхватывает .env из текущего или родительских каталогов (для dev-запуска)
func LoadEnv() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
			log.Println("[env] загружен", p)
			return
		}
	}
}

// EnvOr возвращает значение переменной окружения или дефолт
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ConnectDB открывает Postgres и прогоняет миграции
func ConnectDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[DB] DATABASE_URL не задан")
	}
	// Локальный запуск: localhost без sslmode
	if strings.Contains(dsn, "localhost") && !strings.Contains(dsn, "sslmode=") {
		if strings.Contains(dsn, "?") {
			dsn += "&sslmode=disable"
		} else {
			dsn += "?sslmode=disable"
		}
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[DB] ошибка подключения: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.FamilyNucleus{},
		&models.NucleusInvitation{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.CalendarSettings{},
		&models.ProviderToken{},
	); err != nil {
		log.Fatalf("[DB] ошибка миграции: %v", err)
	}

	DB = db
	log.Println("[DB] подключено")
}
