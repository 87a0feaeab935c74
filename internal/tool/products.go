package tool

import (
	"context"

	"github.com/gamedex-io/gamedex/internal/catalog"
	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// RegisterCatalogTools builds the fixed tool catalog around a product
// store and registers every tool, calculate included.
func RegisterCatalogTools(reg *Registry, store catalog.Store) error {
	tools := []Tool{
		&ListProductsTool{Store: store},
		&FindProductTool{Store: store},
		&FindProductsByCategoryTool{Store: store},
		&FindProductsByPlatformTool{Store: store},
		&FindProductsByPriceRangeTool{Store: store},
		&AddProductTool{Store: store},
		&ListFeaturedProductsTool{Store: store},
		&FindSimilarProductsTool{Store: store},
		&CalculateTool{},
	}
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// --- ListProductsTool ---

type ListProductsTool struct {
	Store catalog.Store
}

func (t *ListProductsTool) Name() string        { return "list_products" }
func (t *ListProductsTool) Description() string  { return "Lists every game in the catalog" }
func (t *ListProductsTool) Arguments() []protocol.ArgSpec { return nil }

func (t *ListProductsTool) Execute(_ context.Context, _ map[string]any) (any, error) {
	return t.Store.ListAll()
}

// --- FindProductTool ---

type FindProductTool struct {
	Store catalog.Store
}

type findProductArgs struct {
	Name string `mapstructure:"name"`
}

func (t *FindProductTool) Name() string        { return "find_product" }
func (t *FindProductTool) Description() string  { return "Finds games by partial name match" }

func (t *FindProductTool) Arguments() []protocol.ArgSpec {
	return []protocol.ArgSpec{
		{Name: "name", Type: protocol.ArgString, Required: true},
	}
}

func (t *FindProductTool) Execute(_ context.Context, args map[string]any) (any, error) {
	var in findProductArgs
	if err := DecodeArgs(args, &in); err != nil {
		return nil, err
	}
	return t.Store.FindByNameSubstring(in.Name)
}

// --- FindProductsByCategoryTool ---

type FindProductsByCategoryTool struct {
	Store catalog.Store
}

type findByCategoryArgs struct {
	Category string `mapstructure:"category"`
}

func (t *FindProductsByCategoryTool) Name() string { return "find_products_by_category" }
func (t *FindProductsByCategoryTool) Description() string {
	return "Finds games in a given genre (Action, RPG, Strategy, Indie, Adventure, Shooter, Simulation)"
}

func (t *FindProductsByCategoryTool) Arguments() []protocol.ArgSpec {
	return []protocol.ArgSpec{
		{Name: "category", Type: protocol.ArgString, Required: true},
	}
}

func (t *FindProductsByCategoryTool) Execute(_ context.Context, args map[string]any) (any, error) {
	var in findByCategoryArgs
	if err := DecodeArgs(args, &in); err != nil {
		return nil, err
	}
	return t.Store.FindByCategory(in.Category)
}

// --- FindProductsByPlatformTool ---

type FindProductsByPlatformTool struct {
	Store catalog.Store
}

type findByPlatformArgs struct {
	Platform string `mapstructure:"platform"`
}

func (t *FindProductsByPlatformTool) Name() string { return "find_products_by_platform" }
func (t *FindProductsByPlatformTool) Description() string {
	return "Finds games for a specific platform (PC, PlayStation, Switch, Mobile)"
}

func (t *FindProductsByPlatformTool) Arguments() []protocol.ArgSpec {
	return []protocol.ArgSpec{
		{Name: "platform", Type: protocol.ArgString, Required: true},
	}
}

func (t *FindProductsByPlatformTool) Execute(_ context.Context, args map[string]any) (any, error) {
	var in findByPlatformArgs
	if err := DecodeArgs(args, &in); err != nil {
		return nil, err
	}
	return t.Store.FindByPlatform(in.Platform)
}

// --- FindProductsByPriceRangeTool ---

type FindProductsByPriceRangeTool struct {
	Store catalog.Store
}

type priceRangeArgs struct {
	MinPrice float64 `mapstructure:"min_price"`
	MaxPrice float64 `mapstructure:"max_price"`
}

func (t *FindProductsByPriceRangeTool) Name() string { return "find_products_by_price_range" }
func (t *FindProductsByPriceRangeTool) Description() string {
	return "Finds games within a price range"
}

func (t *FindProductsByPriceRangeTool) Arguments() []protocol.ArgSpec {
	return []protocol.ArgSpec{
		{Name: "min_price", Type: protocol.ArgNumber, Required: true},
		{Name: "max_price", Type: protocol.ArgNumber, Required: true},
	}
}

func (t *FindProductsByPriceRangeTool) Execute(_ context.Context, args map[string]any) (any, error) {
	var in priceRangeArgs
	if err := DecodeArgs(args, &in); err != nil {
		return nil, err
	}
	return t.Store.FindByPriceRange(in.MinPrice, in.MaxPrice)
}

// --- AddProductTool ---

type AddProductTool struct {
	Store catalog.Store
}

type addProductArgs struct {
	Name       string  `mapstructure:"name"`
	Category   string  `mapstructure:"category"`
	Price      float64 `mapstructure:"price"`
	Platform   string  `mapstructure:"platform"`
	IsFeatured int     `mapstructure:"is_featured"`
}

func (t *AddProductTool) Name() string        { return "add_product" }
func (t *AddProductTool) Description() string  { return "Adds a new game to the catalog" }

func (t *AddProductTool) Arguments() []protocol.ArgSpec {
	return []protocol.ArgSpec{
		{Name: "name", Type: protocol.ArgString, Required: true},
		{Name: "category", Type: protocol.ArgString, Required: true},
		{Name: "price", Type: protocol.ArgNumber, Required: true},
		{Name: "platform", Type: protocol.ArgString, Required: true},
		{Name: "is_featured", Type: protocol.ArgInteger, Default: 0},
	}
}

func (t *AddProductTool) Execute(_ context.Context, args map[string]any) (any, error) {
	var in addProductArgs
	if err := DecodeArgs(args, &in); err != nil {
		return nil, err
	}
	return t.Store.Create(in.Name, in.Category, in.Price, in.Platform, in.IsFeatured != 0)
}

// --- ListFeaturedProductsTool ---

type ListFeaturedProductsTool struct {
	Store catalog.Store
}

func (t *ListFeaturedProductsTool) Name() string { return "list_featured_products" }
func (t *ListFeaturedProductsTool) Description() string {
	return "Lists the featured games we currently recommend"
}
func (t *ListFeaturedProductsTool) Arguments() []protocol.ArgSpec { return nil }

func (t *ListFeaturedProductsTool) Execute(_ context.Context, _ map[string]any) (any, error) {
	return t.Store.ListFeatured()
}

// --- FindSimilarProductsTool ---

type FindSimilarProductsTool struct {
	Store catalog.Store
}

type findSimilarArgs struct {
	BaseName string `mapstructure:"base_name"`
}

func (t *FindSimilarProductsTool) Name() string { return "find_similar_products" }
func (t *FindSimilarProductsTool) Description() string {
	return "Finds games similar to the given one by genre and platform"
}

func (t *FindSimilarProductsTool) Arguments() []protocol.ArgSpec {
	return []protocol.ArgSpec{
		{Name: "base_name", Type: protocol.ArgString, Required: true},
	}
}

func (t *FindSimilarProductsTool) Execute(_ context.Context, args map[string]any) (any, error) {
	var in findSimilarArgs
	if err := DecodeArgs(args, &in); err != nil {
		return nil, err
	}
	return t.Store.FindSimilar(in.BaseName)
}
