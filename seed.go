package main

import (
	"github.com/spf13/cobra"

	database "sprout_backend/internals/databases"
	"sprout_backend/internals/seeds/creators"
)

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo creators from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			_, err = creators.SeedCreatorsFromJSON(cmd.Context(), db, file, log)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "internals/seeds/creators/testdata/data_creators.json", "seed file")
	return cmd
}
