package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/stillpoint/studio/internal/booking"
	"github.com/stillpoint/studio/internal/config"
	"github.com/stillpoint/studio/internal/db"
	"github.com/stillpoint/studio/internal/email"
	"github.com/stillpoint/studio/internal/handlers"
	"github.com/stillpoint/studio/internal/web"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var sender email.Sender
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Println("RESEND_API_KEY not set; emails will be logged, not sent")
		sender = email.NewNoopSender()
	}

	svc := booking.NewService(conn, sender, cfg.Location)
	tmpl := web.MustParseTemplates("templates", cfg.Location)
	h := handlers.New(conn, tmpl, cfg, svc, sender)
	r := web.Router(h, cfg)

	log.Printf("Stillpoint Yoga listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}
