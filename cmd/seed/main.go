// Package main provides a tool to seed the catalog backend with sample data.
//
// This creates a handful of heritage sites with monuments and comments in every
// moderation state, enough to exercise the dashboard and the moderation queue.
//
// Usage:
//
//	go run ./cmd/seed
//	go run ./cmd/seed -backend http://localhost:3000
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/heritageapp/heritage-admin/internal/domain"
	"github.com/heritageapp/heritage-admin/internal/gateway"
	"github.com/heritageapp/heritage-admin/internal/id"
	"github.com/heritageapp/heritage-admin/internal/logger"
)

var backendURL = flag.String("backend", "http://localhost:3000", "Catalog backend base URL")

func main() {
	flag.Parse()

	fmt.Printf("Seeding backend at: %s\n", *backendURL)

	gw := gateway.New(gateway.Options{
		BaseURL: *backendURL,
		Logger:  logger.Discard().Logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, site := range sampleSites() {
		created, err := gw.CreateSite(ctx, &site)
		if err != nil {
			log.Fatalf("Failed to create site %q: %v", site.Name, err)
		}
		fmt.Printf("  created %s (%s), %d monuments, %d comments\n",
			created.Name, created.ID, len(created.Monuments), len(created.Comments))
	}

	fmt.Println("Done.")
}

func strPtr(s string) *string     { return &s }
func floatPtr(v float64) *float64 { return &v }

func comment(author, message string, rating *float64, state domain.ModerationState, daysAgo int) domain.Comment {
	return domain.Comment{
		ID:              id.MustGenerate("com"),
		AuthorName:      author,
		Message:         message,
		Date:            time.Now().AddDate(0, 0, -daysAgo).UTC().Format(time.RFC3339),
		Rating:          rating,
		ModerationState: state,
	}
}

func sampleSites() []domain.Site {
	sites := []domain.Site{
		{
			Name:             "Vieux Port de Marseille",
			Location:         "Marseille",
			Address:          "Quai du Port, 13002 Marseille",
			Description:      "Port naturel au cœur de la ville, occupé depuis l'Antiquité grecque.",
			HistoricalOrigin: "Fondé vers 600 av. J.-C. par des colons phocéens.",
			Latitude:         43.2951,
			Longitude:        5.3740,
			Categories:       []string{"port", "antiquité"},
			ConstructionDate: strPtr("600 av. J.-C."),
			IsListed:         true,
			IsOpen:           true,
			OpeningHours:     []string{"Accès libre"},
			Comments: []domain.Comment{
				comment("Ana", "Superbe promenade au coucher du soleil.", floatPtr(5), domain.ModerationApproved, 12),
				comment("Marc", "Trop de monde en été.", floatPtr(3), domain.ModerationPending, 4),
			},
			Monuments: []domain.Site{
				{
					Name:        "Fort Saint-Jean",
					Description: "Fortification du XVIIe siècle gardant l'entrée du port.",
					Categories:  []string{"fortification"},
					EntryPrice:  9.5,
					IsOpen:      true,
					Comments: []domain.Comment{
						comment("Lucie", "La passerelle vers le Mucem vaut le détour.", floatPtr(5), domain.ModerationApproved, 8),
					},
				},
			},
		},
		{
			Name:                 "Abbaye de Montmajour",
			Location:             "Arles",
			Description:          "Abbaye bénédictine fondée au Xe siècle sur un ancien îlot rocheux.",
			HistoricalOrigin:     "Fondée en 948 par des moines bénédictins.",
			Latitude:             43.7058,
			Longitude:            4.6639,
			Categories:           []string{"abbaye", "médiéval"},
			ConstructionDate:     strPtr("948"),
			IsListed:             true,
			EntryPrice:           6,
			IsOpen:               true,
			GuidedToursAvailable: true,
			OpeningHours:         []string{"10:00-17:00 sauf lundi"},
			NearbyPlaces: []domain.NearbyPlace{
				{Name: "Arènes d'Arles", Type: "amphithéâtre", DistanceKm: floatPtr(4.2)},
			},
			Comments: []domain.Comment{
				comment("Paul", "Visite guidée passionnante.", floatPtr(4), domain.ModerationApproved, 20),
				comment("Zoé", "Commentaire à vérifier.", nil, domain.ModerationRejected, 15),
			},
		},
		{
			Name:        "Théâtre antique d'Orange",
			Location:    "Orange",
			Description: "Théâtre romain du Ier siècle, célèbre pour son mur de scène intact.",
			Latitude:    44.1357,
			Longitude:   4.8083,
			Categories:  []string{"antiquité", "théâtre"},
			IsListed:    true,
			EntryPrice:  11,
			IsOpen:      true,
			Monuments: []domain.Site{
				{
					Name:        "Mur de scène",
					Description: "Mur de 37 mètres de haut, unique en Europe.",
					Comments: []domain.Comment{
						comment("Nina", "Impressionnant, acoustique incroyable.", floatPtr(5), domain.ModerationPending, 2),
					},
				},
				{
					Name:        "Hémicycle",
					Description: "Gradins restaurés accueillant les Chorégies.",
				},
			},
		},
	}
	domain.NormalizeAll(sites)
	return sites
}
