package services

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"

	"git.entraide.dev/community/pkg/internal/models"
)

func IsMailerEnabled() bool {
	return viper.GetBool("mailer.enabled")
}

func SendMail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", viper.GetString("mailer.from"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(
		viper.GetString("mailer.host"),
		viper.GetInt("mailer.port"),
		viper.GetString("mailer.username"),
		viper.GetString("mailer.password"),
	)
	return d.DialAndSend(m)
}

// NotifyUser mails the user in the background, skipping anonymized accounts and opted out members.
func NotifyUser(user models.User, subject, body string) {
	if !IsMailerEnabled() || user.IsAnonymized() || !user.EmailNotifications {
		return
	}

	go func() {
		if err := SendMail(user.Email, subject, body); err != nil {
			log.Error().Err(err).Uint("user", user.ID).Msg("An error occurred when notifying user by email...")
		} else {
			log.Debug().Uint("user", user.ID).Str("subject", subject).Msg("Notified user by email.")
		}
	}()
}
