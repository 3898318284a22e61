package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingalban/aws-butler/internal/envfile"
	"github.com/kingalban/aws-butler/internal/params"
	"github.com/kingalban/aws-butler/internal/render"
	butlersync "github.com/kingalban/aws-butler/internal/sync"
)

var paramsOpts struct {
	paths     []string
	path      string
	limit     int
	sortBy    string
	format    string
	noDecrypt bool
	dryRun    bool
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Browse and sync SSM Parameter Store entries",
}

var paramsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}

		list, err := params.Walk(session.SSM, params.Query{
			Paths: paramsOpts.paths,
			Limit: paramsOpts.limit,
		}).Collect(cmd.Context())
		if err != nil {
			return err
		}

		switch paramsOpts.sortBy {
		case "name":
			sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		case "modified":
			sort.Slice(list, func(i, j int) bool { return list[i].LastModified.After(list[j].LastModified) })
		default:
			return fmt.Errorf("unknown sort key %q (want name or modified)", paramsOpts.sortBy)
		}

		switch paramsOpts.format {
		case "table":
			fmt.Println(render.ParamTable(list))
			return nil
		case "json":
			return render.ParamJSON(os.Stdout, list)
		default:
			return fmt.Errorf("unknown format %q (want table or json)", paramsOpts.format)
		}
	},
}

var paramsPullCmd = &cobra.Command{
	Use:   "pull [FILE]",
	Short: "Export parameters under a path to env-file format",
	Long: `Export the parameters under --path in KEY=VALUE format, to FILE or
stdout. Keys are the uppercased last path segment; SecureString values
are decrypted unless --no-decrypt is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}

		list, err := params.Walk(session.SSM, params.Query{
			Paths:      []string{paramsOpts.path},
			WithValues: true,
			NoDecrypt:  paramsOpts.noDecrypt,
		}).Collect(cmd.Context())
		if err != nil {
			return err
		}

		pairs := make([]envfile.Pair, len(list))
		for i, p := range list {
			pairs[i] = envfile.Pair{Key: p.LastSegment(), Value: p.Value}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })

		out := io.Writer(os.Stdout)
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return envfile.Write(out, pairs)
	},
}

var paramsPushCmd = &cobra.Command{
	Use:   "push FILE",
	Short: "Sync an env file into the store",
	Long: `Diff the env file's keys, qualified onto --path, against the store
and write the new and changed values as SecureString parameters.

The diff is printed first; --dry-run stops there. Applying requires
typing the exact token "yes". Keys present remotely but not in the file
are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		return butlersync.New(session.SSM, os.Stdout).Run(cmd.Context(), f, butlersync.Options{
			Path:    paramsOpts.path,
			DryRun:  paramsOpts.dryRun,
			Confirm: confirmApply,
		})
	},
}

var paramsCheckCmd = &cobra.Command{
	Use:   "check NAME...",
	Short: "Validate candidate parameter names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		invalid := 0
		for _, name := range args {
			if err := params.ValidateName(name); err != nil {
				invalid++
				fmt.Printf("invalid  %s: %v\n", name, err)
				continue
			}
			fmt.Printf("valid    %s\n", name)
		}
		if invalid > 0 {
			return fmt.Errorf("%d of %d name(s) invalid", invalid, len(args))
		}
		return nil
	},
}

// confirmApply gates the write behind the operator typing "yes".
func confirmApply(butlersync.Diff) (bool, error) {
	fmt.Print("apply these changes? type 'yes' to confirm: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	return strings.TrimSpace(line) == "yes", nil
}

func init() {
	paramsLsCmd.Flags().StringArrayVar(&paramsOpts.paths, "path", nil, "path prefix or exact name (repeatable)")
	paramsLsCmd.Flags().IntVarP(&paramsOpts.limit, "number", "n", 0, "cap the number of parameters listed (0 = all)")
	paramsLsCmd.Flags().StringVar(&paramsOpts.sortBy, "sort", "name", "sort key: name or modified")
	paramsLsCmd.Flags().StringVar(&paramsOpts.format, "format", "table", "output format: table or json")

	paramsPullCmd.Flags().StringVar(&paramsOpts.path, "path", "", "hierarchy to export")
	paramsPullCmd.MarkFlagRequired("path")
	paramsPullCmd.Flags().BoolVar(&paramsOpts.noDecrypt, "no-decrypt", false, "keep SecureString values encrypted")

	paramsPushCmd.Flags().StringVar(&paramsOpts.path, "path", "", "hierarchy to write under")
	paramsPushCmd.MarkFlagRequired("path")
	paramsPushCmd.Flags().BoolVar(&paramsOpts.dryRun, "dry-run", false, "print the diff without applying")

	paramsCmd.AddCommand(paramsLsCmd, paramsPullCmd, paramsPushCmd, paramsCheckCmd)
	rootCmd.AddCommand(paramsCmd)
}
