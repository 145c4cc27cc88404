package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirillkom/strive-toolkit-cli/internal/bootstrap"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/usecase"
)

// generateFlags collects the request fields shared by every feature.
type generateFlags struct {
	topic     string
	language  string
	format    string
	documents []string
	raw       bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.topic, "topic", "", "what to generate about (required)")
	cmd.Flags().StringVar(&f.language, "language", "", "target language; resolved from your location when omitted")
	cmd.Flags().StringVar(&f.format, "format", string(domain.FormatInteractive), "output format: json, docx or pdf")
	cmd.Flags().StringArrayVar(&f.documents, "doc", nil, "source document to ground on (repeatable, required)")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "print the structured result as JSON instead of rendering it")
}

func newGenerateCommand(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an assessment, lesson plan, or training content",
	}
	cmd.AddCommand(
		newAssessmentCommand(state),
		newLessonPlanCommand(state),
		newContentCommand(state),
	)
	return cmd
}

func newAssessmentCommand(state *cliState) *cobra.Command {
	var flags generateFlags
	var requirements string

	cmd := &cobra.Command{
		Use:   "assessment",
		Short: "Generate an assessment from the selected documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := domain.GenerationRequest{Requirements: requirements}
			return runGeneration(cmd, state, domain.FeatureAssessment, flags, req)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&requirements, "requirements", "", "assessment requirements, e.g. \"10 multiple choice questions\"")
	return cmd
}

func newLessonPlanCommand(state *cliState) *cobra.Command {
	var flags generateFlags
	var course, region, startDate string

	cmd := &cobra.Command{
		Use:   "lesson-plan",
		Short: "Generate a holiday-aware lesson plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := domain.GenerationRequest{
				CourseName: course,
				State:      region,
				StartDate:  startDate,
			}
			return runGeneration(cmd, state, domain.FeatureLessonPlan, flags, req)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&course, "course", "", "course name from the uploaded catalog")
	cmd.Flags().StringVar(&region, "state", "", "state for holiday lookups; resolved from your location when omitted")
	cmd.Flags().StringVar(&startDate, "start-date", "", "plan start date, YYYY-MM-DD")
	return cmd
}

func newContentCommand(state *cliState) *cobra.Command {
	var flags generateFlags
	var contentType, audience, tone, length string
	var practice bool

	cmd := &cobra.Command{
		Use:   "content",
		Short: "Generate training content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := domain.GenerationRequest{
				ContentType:     contentType,
				Audience:        audience,
				Tone:            tone,
				Length:          length,
				IncludePractice: practice,
			}
			return runGeneration(cmd, state, domain.FeatureContent, flags, req)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&contentType, "content-type", "", "kind of content: case_study, role_play, example, exercise")
	cmd.Flags().StringVar(&audience, "audience", "", "intended audience")
	cmd.Flags().StringVar(&tone, "tone", "", "writing tone")
	cmd.Flags().StringVar(&length, "length", "", "target length: short, medium, long")
	cmd.Flags().BoolVar(&practice, "practice", false, "include practice questions")
	return cmd
}

// runGeneration fills the shared request fields, submits once, and prints
// the settled outcome.
func runGeneration(cmd *cobra.Command, state *cliState, feature domain.Feature, flags generateFlags, req domain.GenerationRequest) error {
	if err := state.buildApp(bootstrap.Options{}); err != nil {
		return err
	}

	req.Topic = flags.topic
	req.OutputFormat = domain.OutputFormat(flags.format)
	req.SelectedDocuments = flags.documents

	req.Language = flags.language
	if req.Language == "" {
		state.app.Resolver.Resolve(cmd.Context())
		req.Language = state.app.Resolver.SuggestedLanguage()
	}
	if req.Language == "" {
		req.Language = state.cfg.DefaultLanguage
	}
	if feature == domain.FeatureLessonPlan && req.State == "" {
		if suggested := state.app.Resolver.SuggestedState(); suggested != "" {
			req.State = suggested
		} else {
			req.State = state.cfg.DefaultState
		}
	}

	ctrl := state.app.Controllers[feature]
	snap := ctrl.Submit(cmd.Context(), req)
	if flags.raw {
		ctrl.SetRawView(true)
		snap.RawView = true
	}
	return printOutcome(cmd, snap)
}

func printOutcome(cmd *cobra.Command, snap usecase.ControllerSnapshot) error {
	out := cmd.OutOrStdout()
	switch snap.State {
	case usecase.StateRendered:
		if snap.RawView {
			raw, err := json.MarshalIndent(snap.Content, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Fprintln(out, string(raw))
			return nil
		}
		answer := snap.Content.TranslatedAnswer
		if answer == "" {
			answer = snap.Content.EnglishAnswer
		}
		fmt.Fprintln(out, answer)
		if snap.Content.HolidaysConsidered != "" {
			fmt.Fprintf(out, "\nholidays considered: %s\n", snap.Content.HolidaysConsidered)
		}
		if len(snap.Content.Sources) > 0 {
			fmt.Fprintf(out, "\nsources:\n")
			for _, src := range snap.Content.Sources {
				fmt.Fprintf(out, "  - %s\n", src)
			}
		}
		return nil

	case usecase.StateDownloaded:
		fmt.Fprintf(out, "saved %s to %s", snap.DownloadedFile, snap.SavedPath)
		if snap.SavedPages > 0 {
			fmt.Fprintf(out, " (%d pages)", snap.SavedPages)
		}
		fmt.Fprintln(out)
		return nil

	case usecase.StateFailed:
		return errors.New(snap.Message)
	}
	return fmt.Errorf("generation ended in unexpected state %q", snap.State)
}
