package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/scenario"
	"github.com/fr0stylo/stockwatch/internal/suppliers"
	"github.com/fr0stylo/stockwatch/pkg/supplierclient"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	source, err := suppliers.ParseSource(cfg.Source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream := scenario.NewInventoryStream(scenario.NewRand(cfg.Seed), scenario.DefaultCatalog(source))
	client := supplierclient.Client{
		Endpoint:    cfg.BaseURL,
		Source:      string(source),
		Token:       cfg.Token,
		Secret:      cfg.Secret,
		Timeout:     10 * time.Second,
		CloudEvents: cfg.CloudEvents,
	}

	ticker := time.NewTicker(cfg.interval())
	defer ticker.Stop()

	for sent := 0; cfg.Count <= 0 || sent < cfg.Count; sent++ {
		if err := sendWebhook(ctx, client, stream, cfg.MaxChanges); err != nil {
			fmt.Fprintln(os.Stderr, "webhook error:", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func sendWebhook(ctx context.Context, client supplierclient.Client, stream *scenario.InventoryStream, maxChanges int) error {
	body, err := stream.Next(time.Now().UTC(), maxChanges)
	if err != nil {
		return fmt.Errorf("failed to build payload: %w", err)
	}

	receipt, err := client.Deliver(ctx, supplierclient.Delivery{Body: body, EventType: string(domain.EventInventoryUpdated)})
	if err != nil {
		return err
	}

	fmt.Printf("Webhook %s: status=%s notifications=%d alerts=%d\n",
		receipt.EventID, receipt.Status, len(receipt.Notifications), len(receipt.Alerts))
	return nil
}
