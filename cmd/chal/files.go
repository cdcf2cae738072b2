package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chalbe-cli/chalbe/internal/executor"
	"github.com/chalbe-cli/chalbe/internal/ui"
)

func newTouchCmd() *cobra.Command {
	var createParents bool

	cmd := &cobra.Command{
		Use:   "touch PATH",
		Short: "Create an empty file, optionally creating parent directories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if _, err := os.Stat(path); err == nil {
				fmt.Printf("Warning: File already exists at %s.\n", path)
				return nil
			}

			if createParents {
				if dir := filepath.Dir(path); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("error creating parent directories for %s: %w", path, err)
					}
				}
			}

			f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
			if err != nil {
				if os.IsPermission(err) {
					return fmt.Errorf("permission denied to create file at %s", path)
				}
				return fmt.Errorf("error creating file at %s: %w", path, err)
			}
			f.Close()

			ui.ShowSuccess(fmt.Sprintf("Successfully touched %s", path))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&createParents, "create-parents", "p", false, "Create parent directories as needed")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete PATH",
		Short: "Delete a file or directory after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("'%s' not found", path)
			}

			if !yes {
				confirmed, err := ui.Confirm(fmt.Sprintf("Remove %s? This cannot be undone.", path), false)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			res := a.exec.Run("rm -rf -- "+executor.Quote(path), executor.Options{Capture: true})
			if res.Status != 0 {
				return fmt.Errorf("error removing %s: %s", path, res.Stderr)
			}
			ui.ShowSuccess(fmt.Sprintf("Removed %s successfully.", path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Delete without confirmation")
	return cmd
}

func newCopyCmd(a *app) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "copy SOURCE DEST",
		Short: "Copy a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dest := args[0], args[1]
			if _, err := os.Stat(src); err != nil {
				return fmt.Errorf("source '%s' not found", filepath.Base(src))
			}

			flag := ""
			if recursive {
				flag = "-r "
			}
			shellCmd := fmt.Sprintf("copy %s-- %s %s", flag, executor.Quote(src), executor.Quote(dest))

			res := a.exec.Run(shellCmd, executor.Options{Capture: true})
			if res.Status != 0 {
				return fmt.Errorf("error copying %s: %s", src, res.Stderr)
			}
			ui.ShowSuccess(fmt.Sprintf("Copied %s -> %s successfully.", src, dest))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Copy directories recursively")
	return cmd
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move SOURCE DEST",
		Short: "Move or rename a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dest := args[0], args[1]
			if _, err := os.Stat(src); err != nil {
				return fmt.Errorf("source '%s' not found", filepath.Base(src))
			}

			res := a.exec.Run(fmt.Sprintf("move -- %s %s", executor.Quote(src), executor.Quote(dest)), executor.Options{Capture: true})
			if res.Status != 0 {
				return fmt.Errorf("error moving %s: %s", src, res.Stderr)
			}
			ui.ShowSuccess(fmt.Sprintf("Moved %s -> %s successfully.", src, dest))
			return nil
		},
	}
}
