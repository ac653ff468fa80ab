package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/allocation"
	"github.com/spigell/team-builder/internal/skills"
	"github.com/spigell/team-builder/internal/team"
)

const (
	PromptExport              = "Export the team to CSV"
	PromptAppendToExcludeFile = "Append the team to exclude file"
	PromptReportBySkill       = "Report by skill"
	PromptDumpToFile          = "Dump the team to file"
	PromptExit                = "Exit"
)

var errExit = errors.New("exit requested")

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a team for the requested skills",
	Run: func(cmd *cobra.Command, _ []string) {
		build(cmd)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringArrayP("skill", "s", nil, `skill quota as "<skill>=<count>", repeat in processing order`)
	buildCmd.Flags().BoolP("yes", "y", false, "do not ask for an action, export the team straight away")
	buildCmd.Flags().Bool("keep-unskilled", false, "do not drop candidates without any skills")
	buildCmd.Flags().StringP("out", "o", "", "csv file for the exported team. Default is final_team.csv")
	buildCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")

	viper.BindPFlag("output", buildCmd.Flags().Lookup("out"))
	viper.BindPFlag("exclude-file", buildCmd.Flags().Lookup("exclude-file"))
}

// build is the main command for the cli.
func build(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, config := setup("build")

	src := openSource(ctx, config, logger)
	defer src.Close()

	filters := prepareFilters(config, logger)
	if keep, _ := cmd.Flags().GetBool("keep-unskilled"); keep {
		filters.DisableByName("no_skills", "keep-unskilled flag is set")
	}

	dataset := loadDataset(ctx, src, filters, logger)

	if dataset.Candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	flagged, _ := cmd.Flags().GetStringArray("skill")
	quotas, err := resolveQuotas(flagged, config, skills.Vocabulary(dataset.Projects.Texts()))
	if err != nil {
		logger.Fatal("getting skill quotas", zap.Error(err))
	}

	if err := quotas.Validate(config.MaxPerSkill); err != nil {
		logger.Fatal("validating skill quotas", zap.Error(err))
	}

	allocator := allocation.New(
		allocation.WithLogger(logger),
		allocation.WithSource(src.Name()),
	)

	result, err := allocator.Allocate(ctx, dataset.Candidates.Items, quotas)
	if err != nil {
		logger.Fatal("allocating the team", zap.Error(err))
	}

	if err := renderResult(os.Stdout, &result); err != nil {
		logger.Fatal("rendering the team", zap.Error(err))
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		if err := exportTeam(&result, config, logger); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		items := []string{PromptExport, PromptReportBySkill, PromptDumpToFile}
		if config.ExcludeFile != "" && len(result.Roster) != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		prompt := promptui.Select{
			Label: "What next?",
			Items: append(items, PromptExit),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, &result, config, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// resolveQuotas takes quotas from flags, then from config, then asks.
func resolveQuotas(flagged []string, config *Config, vocabulary []string) (team.Quotas, error) {
	if len(flagged) > 0 {
		quotas := make(team.Quotas, 0, len(flagged))
		for _, raw := range flagged {
			quota, err := team.ParseQuota(raw)
			if err != nil {
				return nil, err
			}
			quotas = append(quotas, quota)
		}
		return quotas, nil
	}

	if len(config.Team) > 0 {
		return config.Team, nil
	}

	if len(vocabulary) == 0 {
		return nil, errors.New("no skills found in the requirements dataset")
	}

	return promptQuotas(vocabulary, config.MaxPerSkill)
}

func handleAction(action string, result *team.Result, config *Config, logger *zap.Logger) error {
	switch action {
	case PromptExport:
		return exportTeam(result, config, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportBySkill:
		pretty, _ := json.MarshalIndent(result.ReportBySkill(), "", "  ")
		logger.Info(string(pretty), zap.Int("roster count", len(result.Roster)))
		return nil
	case PromptDumpToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump team to file: %w", err)
		}
		logger.Info("dumping team to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(result, config.ExcludeFile, logger)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func exportTeam(result *team.Result, config *Config, logger *zap.Logger) error {
	output := strings.TrimSpace(config.Output)
	if output == "" {
		return errors.New("output file is not configured")
	}

	if err := result.RosterToFile(output); err != nil {
		return fmt.Errorf("export team: %w", err)
	}

	logger.Info("team exported", zap.String("filename", output), zap.Int("count", len(result.Roster)))
	return nil
}

func appendToExcludeFile(result *team.Result, excludeFile string, logger *zap.Logger) error {
	excluded, err := team.GetExcludedCandidatesFromFile(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(result.ToExcluded(team.ExcludeActorRoster, "assigned in run "+result.RunID))

	if err := excluded.ToFile(excludeFile); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", len(result.Roster)))
	return nil
}
