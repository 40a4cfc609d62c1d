package storage

import (
	"fmt"
	"time"

	"gamestore/internal/models"
)

func ptr[T any](v T) *T { return &v }

// Seed populates an empty store with the launch catalog: categories,
// platforms, and an initial set of games. It is a no-op when the catalog
// already has categories.
func Seed(s Storage) error {
	existing, err := s.GetCategories()
	if err != nil {
		return fmt.Errorf("failed to check catalog before seeding: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Action", Icon: "fire-alt"},
		{Name: "Adventure", Icon: "dragon"},
		{Name: "Sports", Icon: "football-ball"},
		{Name: "Strategy", Icon: "chess-knight"},
		{Name: "Horror", Icon: "ghost"},
		{Name: "Multiplayer", Icon: "users"},
		{Name: "Racing", Icon: "car"},
		{Name: "Indie", Icon: "gamepad"},
	}
	for i := range categories {
		if err := s.CreateCategory(&categories[i]); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", categories[i].Name, err)
		}
	}

	platforms := []models.Platform{
		{Name: "PC"},
		{Name: "PlayStation 5"},
		{Name: "PlayStation 4"},
		{Name: "Xbox Series X"},
		{Name: "Xbox One"},
		{Name: "Nintendo Switch"},
	}
	for i := range platforms {
		if err := s.CreatePlatform(&platforms[i]); err != nil {
			return fmt.Errorf("failed to seed platform %q: %w", platforms[i].Name, err)
		}
	}

	now := time.Now()
	games := []models.Game{
		{
			Title:        "Starfield",
			Description:  "Explore the cosmos in Bethesda's new epic space adventure",
			Price:        59.99,
			ImageURL:     "https://images.unsplash.com/photo-1581675907488-1e5aeeb6d310?auto=format&fit=crop&w=1200&h=400&q=80",
			Rating:       ptr(4.5),
			CategoryID:   categories[1].ID,
			IsFeatured:   true,
			IsNewRelease: true,
			Platforms:    []uint{platforms[0].ID, platforms[1].ID, platforms[3].ID},
			ReleaseDate:  &now,
		},
		{
			Title:           "Horizon Forbidden West",
			Description:     "Continue Aloy's journey across a stunning post-apocalyptic world",
			Price:           59.99,
			DiscountedPrice: ptr(44.99),
			ImageURL:        "https://images.unsplash.com/photo-1600861194942-f883de0dfe96?auto=format&fit=crop&w=500&h=300&q=80",
			Rating:          ptr(4.5),
			CategoryID:      categories[1].ID,
			IsNewRelease:    true,
			Platforms:       []uint{platforms[1].ID, platforms[2].ID},
			ReleaseDate:     &now,
		},
		{
			Title:        "God of War Ragnarök",
			Description:  "Embark on an epic journey as Kratos and Atreus prepare for Ragnarök",
			Price:        69.99,
			ImageURL:     "https://images.unsplash.com/photo-1621364090537-a213ada1de19?auto=format&fit=crop&w=500&h=300&q=80",
			Rating:       ptr(5.0),
			CategoryID:   categories[0].ID,
			IsNewRelease: true,
			IsTopRated:   true,
			Platforms:    []uint{platforms[1].ID},
			ReleaseDate:  &now,
		},
		{
			Title:           "Elden Ring",
			Description:     "An action RPG by FromSoftware created in collaboration with George R. R. Martin",
			Price:           59.99,
			DiscountedPrice: ptr(50.99),
			ImageURL:        "https://images.unsplash.com/photo-1551103782-8ab07afd45c1?auto=format&fit=crop&w=500&h=300&q=80",
			Rating:          ptr(4.8),
			CategoryID:      categories[0].ID,
			IsNewRelease:    true,
			IsTopRated:      true,
			Platforms:       []uint{platforms[0].ID, platforms[1].ID, platforms[3].ID},
			ReleaseDate:     &now,
		},
		{
			Title:        "Hogwarts Legacy",
			Description:  "Live the life of a student at Hogwarts in the 1800s",
			Price:        54.99,
			ImageURL:     "https://images.unsplash.com/photo-1496096265110-f83ad7f96608?auto=format&fit=crop&w=500&h=300&q=80",
			Rating:       ptr(4.0),
			CategoryID:   categories[1].ID,
			IsNewRelease: true,
			Platforms:    []uint{platforms[0].ID, platforms[1].ID, platforms[3].ID},
			ReleaseDate:  &now,
		},
		{
			Title:           "Cyberpunk 2077",
			Description:     "An open-world RPG set in Night City, a megalopolis obsessed with power and body modification",
			Price:           59.99,
			DiscountedPrice: ptr(29.99),
			ImageURL:        "https://images.unsplash.com/photo-1486572788966-cfd3df1f5b42?auto=format&fit=crop&w=500&h=300&q=80",
			Rating:          ptr(3.5),
			CategoryID:      categories[0].ID,
			Platforms:       []uint{platforms[0].ID, platforms[1].ID, platforms[3].ID},
			ReleaseDate:     ptr(time.Date(2020, 12, 10, 0, 0, 0, 0, time.UTC)),
		},
		{
			Title:           "Red Dead Redemption 2",
			Description:     "An epic tale of the wild west set in America in 1899",
			Price:           59.99,
			DiscountedPrice: ptr(23.99),
			ImageURL:        "https://images.unsplash.com/photo-1560253023-3ec5d502959f?auto=format&fit=crop&w=500&h=300&q=80",
			Rating:          ptr(4.7),
			CategoryID:      categories[1].ID,
			IsTopRated:      true,
			Platforms:       []uint{platforms[0].ID, platforms[2].ID, platforms[4].ID},
			ReleaseDate:     ptr(time.Date(2018, 10, 26, 0, 0, 0, 0, time.UTC)),
		},
		{
			Title:           "Control: Ultimate Edition",
			Description:     "A third-person action-adventure combining gunplay, supernatural abilities and destructible environments",
			Price:           39.99,
			DiscountedPrice: ptr(9.99),
			ImageURL:        "https://images.unsplash.com/photo-1593305841991-05c297ba4575?auto=format&fit=crop&w=500&h=300&q=80",
			Rating:          ptr(4.0),
			CategoryID:      categories[0].ID,
			Platforms:       []uint{platforms[0].ID, platforms[1].ID, platforms[3].ID},
			ReleaseDate:     ptr(time.Date(2019, 8, 27, 0, 0, 0, 0, time.UTC)),
		},
		{
			Title:           "The Witcher 3: Wild Hunt",
			Description:     "An open-world RPG with an intense story set in a visually stunning fantasy universe",
			Price:           49.99,
			DiscountedPrice: ptr(14.99),
			ImageURL:        "https://images.unsplash.com/photo-1533236897111-3e94666b2edf?auto=format&fit=crop&w=500&h=300&q=80",
			Rating:          ptr(4.9),
			CategoryID:      categories[1].ID,
			IsTopRated:      true,
			Platforms:       []uint{platforms[0].ID, platforms[1].ID, platforms[3].ID},
			ReleaseDate:     ptr(time.Date(2015, 5, 19, 0, 0, 0, 0, time.UTC)),
		},
		{
			Title:       "Baldur's Gate 3",
			Description: "The long-awaited sequel to the legendary Baldur's Gate RPG series, based on Dungeons & Dragons",
			Price:       59.99,
			ImageURL:    "https://images.unsplash.com/photo-1550745165-9bc0b252726f?auto=format&fit=crop&w=500&h=300&q=80",
			Rating:      ptr(5.0),
			CategoryID:  categories[3].ID,
			IsTopRated:  true,
			Platforms:   []uint{platforms[0].ID, platforms[1].ID},
			ReleaseDate: ptr(time.Date(2023, 8, 3, 0, 0, 0, 0, time.UTC)),
		},
	}
	for i := range games {
		if err := s.CreateGame(&games[i]); err != nil {
			return fmt.Errorf("failed to seed game %q: %w", games[i].Title, err)
		}
	}
	return nil
}
