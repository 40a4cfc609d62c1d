package services

import (
	"gamestore/internal/models"
	"gamestore/internal/storage"
)

// CatalogService handles business logic for the game catalog.
type CatalogService struct {
	store storage.Storage
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store storage.Storage) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) GetGames() ([]models.Game, error) {
	return s.store.GetGames()
}

func (s *CatalogService) GetGame(id uint) (*models.Game, error) {
	return s.store.GetGame(id)
}

func (s *CatalogService) GetGamesByCategory(categoryID uint) ([]models.Game, error) {
	return s.store.GetGamesByCategory(categoryID)
}

func (s *CatalogService) GetFeaturedGames() ([]models.Game, error) {
	return s.store.GetFeaturedGames()
}

func (s *CatalogService) GetNewReleases() ([]models.Game, error) {
	return s.store.GetNewReleases()
}

func (s *CatalogService) GetTopRatedGames() ([]models.Game, error) {
	return s.store.GetTopRatedGames()
}

func (s *CatalogService) SearchGames(query string) ([]models.Game, error) {
	return s.store.SearchGames(query)
}

func (s *CatalogService) CreateGame(game *models.Game) error {
	return s.store.CreateGame(game)
}

func (s *CatalogService) GetCategories() ([]models.Category, error) {
	return s.store.GetCategories()
}

func (s *CatalogService) GetCategory(id uint) (*models.Category, error) {
	return s.store.GetCategory(id)
}

func (s *CatalogService) GetPlatforms() ([]models.Platform, error) {
	return s.store.GetPlatforms()
}
