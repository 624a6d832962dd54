package cli

import (
	"context"
	"strings"

	"github.com/kilupskalvis/mapedit/internal/answers"
	"github.com/kilupskalvis/mapedit/internal/changes"
	"github.com/kilupskalvis/mapedit/internal/sided"
	"github.com/spf13/cobra"
)

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Answer a survey question about an element",
	Long: `Answer a survey question about an element. The answer is turned into
tag changes following the tagging conventions and queued as an edit.`,
}

var answerSidewalkSurfaceCmd = &cobra.Command{
	Use:   "sidewalk-surface <way>",
	Short: "Answer the surface of the sidewalks of a road",
	Long: `Answer the surface of the sidewalks of a road. Give --both when both
sides share a surface, or --left and/or --right.

Known surfaces: ` + strings.Join(answers.KnownSurfaces(), ", "),
	Args: cobra.ExactArgs(1),
	Run:  runAnswerSidewalkSurface,
}

var answerBuildingLevelsCmd = &cobra.Command{
	Use:   "building-levels <type/id>",
	Short: "Answer the number of levels of a building",
	Args:  cobra.ExactArgs(1),
	Run:   runAnswerBuildingLevels,
}

var (
	answerLeft       string
	answerRight      string
	answerBoth       string
	answerLevels     int
	answerRoofLevels int
	answerForce      bool
)

func init() {
	answerSidewalkSurfaceCmd.Flags().StringVar(&answerLeft, "left", "", "Surface of the left sidewalk")
	answerSidewalkSurfaceCmd.Flags().StringVar(&answerRight, "right", "", "Surface of the right sidewalk")
	answerSidewalkSurfaceCmd.Flags().StringVar(&answerBoth, "both", "", "Surface of both sidewalks")
	answerSidewalkSurfaceCmd.MarkFlagsMutuallyExclusive("both", "left")
	answerSidewalkSurfaceCmd.MarkFlagsMutuallyExclusive("both", "right")

	answerBuildingLevelsCmd.Flags().IntVar(&answerLevels, "levels", 0, "Number of levels without the roof")
	answerBuildingLevelsCmd.Flags().IntVar(&answerRoofLevels, "roof-levels", 0, "Number of levels in the roof")
	answerBuildingLevelsCmd.Flags().BoolVar(&answerForce, "force", false, "Answer even if the question does not apply")
	answerBuildingLevelsCmd.MarkFlagRequired("levels")

	answerCmd.AddCommand(answerSidewalkSurfaceCmd)
	answerCmd.AddCommand(answerBuildingLevelsCmd)
}

func runAnswerSidewalkSurface(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	answer, err := sidewalkSurfaceAnswer(answerLeft, answerRight, answerBoth)
	if err != nil {
		exitError("%v", err)
	}

	c := initContext()
	defer c.Close()

	el := mustGetElement(ctx, c, args[0])

	b := changes.NewBuilder(el.Tags)
	if err := answer.ApplyTo(b, sided.Today()); err != nil {
		exitError("%v", err)
	}
	queueTagChanges(c, b, el)
}

// sidewalkSurfaceAnswer builds the answer from the command flags
func sidewalkSurfaceAnswer(left, right, both string) (answers.SidewalkSurface, error) {
	if both != "" {
		left, right = both, both
	}

	var answer answers.SidewalkSurface
	for _, side := range []struct {
		value  string
		target **answers.Surface
	}{
		{left, &answer.Left},
		{right, &answer.Right},
	} {
		if side.value == "" {
			continue
		}
		s, err := answers.ParseSurface(side.value)
		if err != nil {
			return answers.SidewalkSurface{}, err
		}
		*side.target = &s
	}
	return answer, answer.Validate()
}

func runAnswerBuildingLevels(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	answer := answers.BuildingLevels{Levels: answerLevels}
	if cmd.Flags().Changed("roof-levels") {
		roof := answerRoofLevels
		answer.RoofLevels = &roof
	}

	c := initContext()
	defer c.Close()

	el := mustGetElement(ctx, c, args[0])
	if !answerForce && !answers.IsBuildingLevelsApplicable(el) {
		exitError("%s is not a building with unknown levels (use --force to answer anyway)", el.Key())
	}

	b := changes.NewBuilder(el.Tags)
	if err := answer.ApplyTo(b); err != nil {
		exitError("%v", err)
	}
	queueTagChanges(c, b, el)
}
