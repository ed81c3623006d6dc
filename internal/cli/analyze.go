package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ashureev/sproc-lineage/internal/domain"
	"github.com/ashureev/sproc-lineage/internal/history"
	"github.com/ashureev/sproc-lineage/internal/interaction"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAnalyzeCommand(factory RunnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <schema> <procedure> <query...>",
		Short: "Fetch a stored procedure and explain column lineage",
		Long: `Fetch the named stored procedure, save it as <procedure>.sql in
OUTPUT_DIR and ask the model the given question about it.`,
		Example: `  lineagectl analyze dbo CalcRevenue "How is NetRevenue derived?"`,
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cleanup, err := factory()
			if err != nil {
				return err
			}
			defer cleanup()

			req := domain.AnalysisRequest{
				SchemaName: args[0],
				ProcName:   args[1],
				UserQuery:  strings.Join(args[2:], " "),
			}
			sess := interaction.Session{ID: uuid.NewString(), History: history.New()}
			notes := &interaction.Collector{}

			_, runErr := runner.Run(cmd.Context(), sess, req, notes)
			printNotifications(cmd.ErrOrStderr(), notes.Notifications())
			if runErr != nil {
				return runErr
			}
			printHistory(cmd.OutOrStdout(), sess.History)
			return nil
		},
	}
}

func printNotifications(w io.Writer, notes []interaction.Notification) {
	for _, n := range notes {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	}
}

func printHistory(w io.Writer, h *history.History) {
	latest, ok := h.Latest()
	if !ok {
		return
	}
	_, _ = fmt.Fprintln(w, "Current Result:")
	printRecord(w, latest)

	previous := h.Previous()
	if len(previous) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "\nPrevious Results:")
	for _, rec := range previous {
		printRecord(w, rec)
	}
}

func printRecord(w io.Writer, rec domain.InteractionRecord) {
	_, _ = fmt.Fprintf(w, "Schema: %s\nProcedure: %s\nQuery: %s\nResult:\n%s\n",
		rec.SchemaName, rec.ProcName, rec.UserQuery, rec.ResultText)
}
