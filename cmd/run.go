package cmd

import (
	"fmt"

	"github.com/abhisek/studentperf/internal/app"
	"github.com/abhisek/studentperf/internal/auth"
	"github.com/abhisek/studentperf/internal/pipeline"
	"github.com/abhisek/studentperf/internal/screens/home"
	"github.com/spf13/cobra"
)

// runApp opens the store, seeds the admin account, builds the services and
// launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	authn := auth.New(st.Users(), auth.ConfigFromEnv())
	if err := authn.EnsureAdmin(ctx); err != nil {
		return fmt.Errorf("prepare accounts: %w", err)
	}

	svc := pipeline.NewService(st.Students(), st.Models())
	return app.Run(app.Options{
		Auth: authn,
		Deps: home.Deps{
			Students: st.Students(),
			Models:   st.Models(),
			Loader:   svc,
			Runner:   pipeline.WithRunLog(svc, st.Events()),
			Config:   pipeline.ConfigFromEnv(),
		},
	})
}
