package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"terragen/internal/docstore"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the resource types known to the documentation store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store := docstore.NewMilvusStore(cfg.MilvusAddr, cfg.MilvusCollection,
			time.Duration(cfg.Timeout)*time.Second)
		names, err := store.Resources(cmd.Context())
		if err != nil {
			return fmt.Errorf("querying %s: %w", cfg.MilvusAddr, err)
		}
		if len(names) == 0 {
			fmt.Println("No resource types found. Is the collection populated?")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
}
