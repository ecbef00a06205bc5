package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	curbreg "github.com/mtl-mobilite/curblr-engine"
	"github.com/mtl-mobilite/curblr-engine/internal/ingest"
	"github.com/mtl-mobilite/curblr-engine/internal/roadnet"
)

var (
	inventoryPath string
	roadsPath     string
	outputPath    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "ingest an inventory CSV and a road-network CSV, emit a CurbLR document",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&inventoryPath, "inventory", "", "path to the sign inventory CSV (required)")
	generateCmd.Flags().StringVar(&roadsPath, "roads", "", "path to the road-network CSV (required)")
	generateCmd.Flags().StringVar(&outputPath, "out", "-", "output path for the CurbLR document, or - for stdout")
	_ = generateCmd.MarkFlagRequired("inventory")
	_ = generateCmd.MarkFlagRequired("roads")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if maxBytes := viper.GetInt("max_csv_bytes"); maxBytes > 0 {
		ingest.SetMaxBytes(maxBytes)
	}

	engine, err := buildEngine()
	if err != nil {
		return err
	}

	doc, err := engine.ToCurbLR()
	if err != nil {
		return fmt.Errorf("building curblr document: %w", err)
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding curblr document: %w", err)
	}

	if outputPath == "-" {
		_, err = os.Stdout.Write(append(encoded, '\n'))
		return err
	}
	return os.WriteFile(outputPath, encoded, 0o644)
}

func buildEngine() (*curbreg.Engine, error) {
	invFile, err := os.Open(inventoryPath)
	if err != nil {
		return nil, fmt.Errorf("opening inventory csv: %w", err)
	}
	defer invFile.Close()

	rows, err := ingest.ReadRows(invFile)
	if err != nil {
		return nil, err
	}

	roadsFile, err := os.Open(roadsPath)
	if err != nil {
		return nil, fmt.Errorf("opening road csv: %w", err)
	}
	defer roadsFile.Close()

	roads, err := ingest.ReadRoads(roadsFile)
	if err != nil {
		return nil, err
	}

	store, err := roadnet.Open(roadnet.DefaultDialector(viper.GetString("database_path")), viper.GetBool("use_mutex"))
	if err != nil {
		return nil, fmt.Errorf("opening road network store: %w", err)
	}
	if err := store.Load(roads); err != nil {
		return nil, fmt.Errorf("loading road network: %w", err)
	}

	engine, err := curbreg.FromInventory(rows)
	if err != nil {
		return nil, fmt.Errorf("building inventory engine: %w", err)
	}
	engine.Enrich(store)

	return engine, nil
}
