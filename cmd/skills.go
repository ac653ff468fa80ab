package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the skills found in the requirements dataset",
	Run: func(cmd *cobra.Command, _ []string) {
		listSkills(cmd)
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)
}

func listSkills(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup("skills")

	src := openSource(ctx, config, logger)
	defer src.Close()

	projects, err := src.Projects(ctx)
	if err != nil {
		logger.Fatal("loading projects", zap.Error(err))
	}

	vocabulary := skills.Vocabulary(projects.Texts())
	logger.Info("skills found", zap.Int("projects", projects.Len()), zap.Int("count", len(vocabulary)))

	for _, skill := range vocabulary {
		fmt.Fprintln(cmd.OutOrStdout(), skill)
	}
}
