package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/balloon/internal/app"
	"github.com/five82/balloon/internal/state"
	"github.com/five82/balloon/internal/translator"
)

const followInterval = 100 * time.Millisecond

type submitOutput struct {
	Token    string              `json:"token"`
	TaskID   string              `json:"task_id,omitempty"`
	File     string              `json:"file"`
	State    state.JobState      `json:"state"`
	Error    string              `json:"error,omitempty"`
	Polls    int                 `json:"polls"`
	Elapsed  string              `json:"elapsed"`
	Bubbles  []translator.Bubble `json:"bubbles"`
	Endpoint string              `json:"endpoint"`
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "submit <image>",
		Short: "Translate one image and print the results",
		Long: `Upload an image, wait for the translation to finish and print every speech
bubble. Exits non-zero unless the job finishes successfully.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			rt, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			defer ctx.closeRuntime()

			upload := translator.Upload{Filename: filepath.Base(args[0]), Content: content}
			snap, err := runJob(cmd.Context(), rt.Session, rt.Config.Endpoint, upload, func(job state.Job) {
				if !jsonOutput {
					fmt.Fprintln(cmd.OutOrStdout(), jobStatusLine(job, shouldColorize(cmd.OutOrStdout())))
				}
			})
			if err != nil {
				return err
			}

			job := snap.Job
			if jsonOutput {
				if err := writeJSON(cmd, submitOutput{
					Token:    job.Token,
					TaskID:   job.ID,
					File:     job.Filename,
					State:    job.State,
					Error:    job.ErrorMessage,
					Polls:    job.Polls,
					Elapsed:  job.UpdatedAt.Sub(job.SubmittedAt).Round(time.Millisecond).String(),
					Bubbles:  job.Results,
					Endpoint: rt.Config.Endpoint,
				}); err != nil {
					return err
				}
			} else if job.State == state.Done && len(job.Results) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderBubbleTable(job.Results))
			}

			if job.State != state.Done {
				return fmt.Errorf("job %s: %s", stateLabel(job.State), job.ErrorMessage)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the finished job as JSON")
	return cmd
}

// runJob submits upload and follows the job until it stops running. onChange
// is called whenever the observed state differs from the last one reported.
func runJob(ctx context.Context, session *app.Session, rawEndpoint string, upload translator.Upload, onChange func(state.Job)) (state.Snapshot, error) {
	var last state.JobState
	report := func(snap state.Snapshot) {
		if snap.Job.State != last && snap.HasJob() {
			last = snap.Job.State
			onChange(snap.Job)
		}
	}

	report(state.Snapshot{Job: state.Job{State: state.Submitting, Filename: upload.Filename}})
	if _, err := session.Submit(ctx, rawEndpoint, upload); err != nil {
		snap := session.Store().Snapshot()
		if errors.Is(err, translator.ErrEmptyUpload) || !snap.Job.State.Terminal() {
			return snap, err
		}
		report(snap)
		return snap, nil
	}

	done := make(chan struct{})
	var final state.Snapshot
	var waitErr error
	go func() {
		defer close(done)
		final, waitErr = session.Wait(ctx)
	}()

	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			if waitErr != nil {
				return final, waitErr
			}
			report(final)
			return final, nil
		case <-ticker.C:
			report(session.Store().Snapshot())
		}
	}
}
