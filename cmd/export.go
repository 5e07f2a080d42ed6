package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/1F47E/psf-grid/pkg/export"
	"github.com/1F47E/psf-grid/pkg/models"
	"github.com/1F47E/psf-grid/pkg/pointfile"
	"github.com/1F47E/psf-grid/pkg/postgis"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatGeoJSON = "geojson"
	formatPostGIS = "postgis"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		dsn    string
		dbCfg  postgis.Config
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a point file to GeoJSON or PostGIS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := pointfile.ReadFile(args[0])
			if err != nil {
				return err
			}

			switch strings.ToLower(format) {
			case formatGeoJSON:
				if output == "" {
					output = geoJSONName(args[0])
				}
				if err := export.WriteGeoJSON(output, points); err != nil {
					return err
				}
				a.logger.Info("wrote geojson", zap.String("file", output), zap.Int("points", len(points)))
				fmt.Fprintf(cmd.OutOrStdout(), "%d points written to %s\n", len(points), output)
				return nil
			case formatPostGIS:
				return a.exportPostGIS(cmd, points, dsn, dbCfg)
			default:
				return fmt.Errorf("unknown format %q: want %s or %s", format, formatGeoJSON, formatPostGIS)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatGeoJSON, "Output format: geojson or postgis")
	cmd.Flags().StringVarP(&output, "output", "o", "", "GeoJSON output file (default: <file base>.geojson)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "PostGIS connection string, overrides the individual connection flags")
	cmd.Flags().StringVar(&dbCfg.Host, "host", "localhost", "PostGIS host")
	cmd.Flags().IntVar(&dbCfg.Port, "port", 5432, "PostGIS port")
	cmd.Flags().StringVar(&dbCfg.User, "user", "postgres", "PostGIS user")
	cmd.Flags().StringVar(&dbCfg.Password, "password", "", "PostGIS password")
	cmd.Flags().StringVar(&dbCfg.Database, "database", "postgres", "PostGIS database")
	cmd.Flags().StringVar(&dbCfg.Table, "table", postgis.DefaultTable, "Table that receives the points")
	cmd.Flags().StringVar(&dbCfg.SSLMode, "sslmode", "disable", "PostGIS sslmode")
	return cmd
}

func (a *app) exportPostGIS(cmd *cobra.Command, points []models.Point, dsn string, cfg postgis.Config) error {
	var (
		store *postgis.Store
		err   error
	)
	if dsn != "" {
		store, err = postgis.Open(dsn, cfg.Table)
	} else {
		store, err = postgis.NewStore(cfg)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	start := time.Now()
	if err := store.InitSchema(); err != nil {
		return err
	}
	if err := store.BulkInsertPoints(points); err != nil {
		return err
	}
	if err := store.CreateSpatialIndex(); err != nil {
		return err
	}

	count, err := store.Count()
	if err != nil {
		return err
	}
	a.logger.Info("exported to postgis",
		zap.String("table", cfg.Table),
		zap.Int64("rows", count),
		zap.Duration("elapsed", time.Since(start)))
	fmt.Fprintf(cmd.OutOrStdout(), "%d points written to table %s\n", count, cfg.Table)
	return nil
}

// geoJSONName swaps the extension of a point file for .geojson.
func geoJSONName(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".geojson"
}
