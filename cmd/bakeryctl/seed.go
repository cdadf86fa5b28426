package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/opryshko/bakehouse/internal/domain/product"
	"github.com/opryshko/bakehouse/internal/storage/postgres"
)

type productJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
}

func seedCmd(databaseURL *string) *cobra.Command {
	var productsFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the product catalog from a JSON file (plain or gzipped)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), *databaseURL, productsFile)
		},
	}
	cmd.Flags().StringVar(&productsFile, "products-file", "db/seed/products.json",
		"path to products JSON file, .gz accepted")
	return cmd
}

func runSeed(ctx context.Context, databaseURL, productsFile string) error {
	pool, err := connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	products, err := readProducts(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products")
	}

	repo := postgres.NewProductRepository(pool)

	// Seeding is name-idempotent: products already in the catalog are skipped.
	existing, err := repo.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list existing products")
	}
	known := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		known[p.Name] = struct{}{}
	}

	slog.Info("seeding products",
		slog.Int("total", len(products)), slog.Int("existing", len(existing)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, pj := range products {
		if _, ok := known[pj.Name]; ok {
			slog.Info("skipping existing product", slog.String("name", pj.Name))
			continue
		}
		g.Go(func() error {
			p := &product.Product{
				Name:        pj.Name,
				Description: pj.Description,
				Price:       pj.Price,
				ImageURL:    pj.ImageURL,
				Category:    pj.Category,
				Available:   pj.Available,
			}
			if err := repo.Save(gctx, p); err != nil {
				return errors.Wrapf(err, "save product %s", pj.Name)
			}
			slog.Info("seeded product", slog.Int64("id", p.ID), slog.String("name", p.Name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("seed completed")
	return nil
}

func readProducts(path string) ([]productJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	var products []productJSON
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}
	return products, nil
}
