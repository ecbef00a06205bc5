package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkChainsCmd = &cobra.Command{
	Use:   "check-chains",
	Short: "report panel ids whose arrow chain triggered a warning, without building geometry",
	RunE:  runCheckChains,
}

func runCheckChains(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}

	for _, id := range engine.CheckChains() {
		fmt.Println(id)
	}
	return nil
}
