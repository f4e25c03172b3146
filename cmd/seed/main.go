package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/container"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

func main() {
	destroy := flag.Bool("d", false, "delete all users, bootcamps and courses instead of seeding")
	adminEmail := flag.String("admin-email", "admin@devcamper.io", "email of the seeded admin")
	adminPassword := flag.String("admin-password", "123456", "password of the seeded admin")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialise dependencies")
	}
	defer func() { _ = c.Close() }()

	if *destroy {
		if err := wipe(c.DB.Gorm.WithContext(ctx)); err != nil {
			logger.WithError(err).Fatal("failed to destroy data")
		}
		logger.Info("data destroyed")
		return
	}

	if err := seed(ctx, c, *adminEmail, *adminPassword, logger); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
}

func wipe(db *gorm.DB) error {
	all := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&entity.Course{}, &entity.Bootcamp{}, &entity.User{}} {
		if err := all.Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func seed(ctx context.Context, c *container.Container, email, password string, logger logrus.FieldLogger) error {
	if _, err := c.Auth.Login(ctx, email, password); err == nil {
		logger.WithField("email", email).Info("admin already present; nothing to seed")
		return nil
	}

	admin, err := c.Users.Create(ctx, application.CreateUserInput{
		Name: "Admin Account", Email: email, Password: password, Role: entity.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email}).Info("seeded admin")

	actor := application.Actor{ID: admin.ID, Role: admin.Role}
	for _, sb := range sampleBootcamps {
		b, err := c.Bootcamps.Create(ctx, actor, sb.bootcamp)
		if err != nil {
			return err
		}
		for _, ci := range sb.courses {
			if _, err := c.Courses.Create(ctx, actor, b.ID, ci); err != nil {
				return err
			}
		}
		logger.WithFields(logrus.Fields{"id": b.ID, "name": b.Name, "courses": len(sb.courses)}).Info("seeded bootcamp")
	}
	return nil
}
