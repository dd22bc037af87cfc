package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/account"
)

func addAuth(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"account"},
		Short:   "Sign in to keep a journal per account",
		Long: options.Wrap80(`Accounts are Firebase users. Set firebase.project_id and
firebase.api_key (or JOURNAL_FIREBASE_PROJECT_ID and JOURNAL_FIREBASE_API_KEY,
a .env file works too). Each account has its own journal; signed out, the
shared journal is used.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addAuthSignUp(cmd)
	addAuthSignIn(cmd)
	addAuthToken(cmd)
	addAuthSignOut(cmd)
	addAuthWhoAmI(cmd)

	topLevel.AddCommand(cmd)
}

// password reads the --password flag or prompts for it.
func password(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	return options.ReadSecret("Password: ")
}

func addAuthSignUp(topLevel *cobra.Command) {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "signup [display name]",
		Short: "Create an account",
		Example: `
journal auth signup --email ana@example.com Ana
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := password(pass)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := account.SignUp{
					Auth:        rt.Auth,
					Email:       email,
					Password:    p,
					DisplayName: strings.Join(args, " "),
				}
				return rt.authDone(s.Do(cmd.Context()))
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address.")
	cmd.Flags().StringVar(&pass, "password", "", "Password; prompted for when empty.")
	_ = cmd.MarkFlagRequired("email")
	topLevel.AddCommand(cmd)
}

func addAuthSignIn(topLevel *cobra.Command) {
	var email, pass string

	cmd := &cobra.Command{
		Use:     "signin",
		Aliases: []string{"login"},
		Short:   "Sign in with email and password",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := password(pass)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := account.SignIn{Auth: rt.Auth, Email: email, Password: p}
				return rt.authDone(s.Do(cmd.Context()))
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address.")
	cmd.Flags().StringVar(&pass, "password", "", "Password; prompted for when empty.")
	_ = cmd.MarkFlagRequired("email")
	topLevel.AddCommand(cmd)
}

func addAuthToken(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "token [id-token]",
		Short: "Sign in with a Firebase ID token, read from stdin when not given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			} else {
				var err error
				if token, err = options.ReadSecret("ID token: "); err != nil {
					return err
				}
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := account.SignIn{Auth: rt.Auth, Token: strings.TrimSpace(token)}
				return rt.authDone(s.Do(cmd.Context()))
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addAuthSignOut(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "signout",
		Aliases: []string{"logout"},
		Short:   "Sign out; the shared journal is used again",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				s := account.SignOut{Auth: rt.Auth}
				return rt.authDone(s.Do(cmd.Context()))
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addAuthWhoAmI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				w := account.WhoAmI{Auth: rt.Auth, App: rt.App, JSON: output.JSON}
				return w.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}
