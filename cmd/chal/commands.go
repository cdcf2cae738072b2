package main

import (
	"fmt"
	"os"
	osexec "os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/chalbe-cli/chalbe/internal/executor"
	"github.com/chalbe-cli/chalbe/internal/prompts"
	"github.com/chalbe-cli/chalbe/internal/ui"
)

// Input limits applied before text reaches a prompt template.
const (
	clipLarge  = 8000
	clipMedium = 4000
	clipSmall  = 2000
)

func newListCmd(a *app) *cobra.Command {
	var (
		intent string
		cwd    string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Generate and execute a shell command to list files based on your intent",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireSettings()
			if err != nil {
				return err
			}

			suggestion, err := a.generate(cmd.Context(), s, prompts.SuggestNavigation(cwd, intent))
			if err != nil {
				return fmt.Errorf("AI could not suggest a command: %w", err)
			}
			suggestion = strings.TrimSpace(strings.ReplaceAll(suggestion, "$PWD", executor.Quote(cwd)))
			fmt.Println("Suggested command:\n" + suggestion)

			res := a.exec.ConfirmAndRun(suggestion, yes)
			a.recordHistory(intent, suggestion, !aborted(res))
			if aborted(res) {
				return nil
			}
			if res.Status != 0 {
				ui.ShowError(fmt.Sprintf("Command failed (%d): %s", res.Status, res.Stderr))
				return nil
			}
			if res.Stdout != "" {
				fmt.Print(res.Stdout)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&intent, "intent", "i", "", "Describe what you want to see (e.g., 'python files modified today')")
	cmd.Flags().StringVarP(&cwd, "cwd", "C", ".", "Directory to run in")
	cmd.Flags().BoolVar(&yes, "yes", false, "Execute the suggested command without confirmation")
	cmd.MarkFlagRequired("intent")
	return cmd
}

func newFindCmd(a *app) *cobra.Command {
	var (
		root string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "find INTENT",
		Short: "Find files or directories using a natural language description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent := args[0]
			s, err := a.requireSettings()
			if err != nil {
				return err
			}

			suggestion, err := a.generate(cmd.Context(), s, prompts.FindCommand(intent, root))
			if err != nil {
				return fmt.Errorf("AI could not suggest a find command: %w", err)
			}
			fmt.Println("Suggested:\n" + suggestion)

			res := a.exec.ConfirmAndRun(suggestion, yes)
			a.recordHistory(intent, suggestion, !aborted(res))
			if aborted(res) {
				return nil
			}
			if res.Status != 0 {
				ui.ShowError(fmt.Sprintf("Command failed (%d): %s", res.Status, res.Stderr))
				return nil
			}
			if res.Stdout != "" {
				fmt.Print(res.Stdout)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&root, "root", "C", ".", "Root directory")
	cmd.Flags().BoolVar(&yes, "yes", false, "Run suggested command without confirmation")
	return cmd
}

func newAskCmd(a *app) *cobra.Command {
	var (
		execute bool
		copyCmd bool
	)

	cmd := &cobra.Command{
		Use:   "ask INSTRUCTION",
		Short: "Translate a natural language instruction into a shell command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nl := args[0]
			s, err := a.requireSettings()
			if err != nil {
				return err
			}

			out, err := a.generate(cmd.Context(), s, prompts.NLToShell(nl))
			if err != nil {
				return fmt.Errorf("AI could not generate any shell commands: %w", err)
			}

			fmt.Println("--- Generated Commands ---")
			fmt.Println(out)

			var commands []string
			for _, line := range strings.Split(out, "\n") {
				line = strings.TrimSpace(line)
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				commands = append(commands, line)
			}

			if copyCmd && len(commands) > 0 {
				if err := clipboard.WriteAll(commands[0]); err != nil {
					ui.ShowError(fmt.Sprintf("Failed to copy to clipboard: %v", err))
				} else {
					ui.ShowSuccess("Command copied to clipboard!")
				}
			}

			a.recordHistory(nl, strings.Join(commands, "\n"), execute)

			if execute && len(commands) > 0 {
				for _, c := range commands {
					fmt.Println("Candidate command: " + c)
					confirmed, err := ui.Confirm("Execute this command?", false)
					if err != nil {
						return fmt.Errorf("error during confirmation prompt: %w", err)
					}
					if !confirmed {
						fmt.Println("Skipping command: " + c)
						continue
					}
					res := a.exec.Run(c, executor.Options{})
					if res.Status != 0 {
						fmt.Printf("Command '%s' failed with error code %d.\n", c, res.Status)
						if res.Stderr != "" {
							fmt.Printf("Error output: %s\n", res.Stderr)
						}
					} else {
						fmt.Printf("Command '%s' executed successfully.\n", c)
					}
				}
			} else if execute {
				fmt.Println("No executable candidate commands detected automatically. Please run manually if desired.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&execute, "execute", false, "Execute the generated command(s) after confirmation")
	cmd.Flags().BoolVar(&copyCmd, "copy", false, "Copy the first generated command to the clipboard")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var (
		lines     int
		summarize bool
	)

	cmd := &cobra.Command{
		Use:   "show PATH",
		Short: "Display file content, with an option for AI-powered summarization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return fmt.Errorf("'%s' is not a file", path)
			}

			var shellCmd string
			switch {
			case !cmd.Flags().Changed("lines"):
				shellCmd = "cat " + executor.Quote(path)
			case lines >= 0:
				shellCmd = fmt.Sprintf("head -n %d %s", lines, executor.Quote(path))
			default:
				shellCmd = fmt.Sprintf("tail -n %d %s", -lines, executor.Quote(path))
			}

			res := a.exec.Run(shellCmd, executor.Options{Capture: true})
			if res.Status != 0 {
				return fmt.Errorf("error reading file: %s", res.Stderr)
			}
			fmt.Println(res.Stdout)

			if summarize {
				s, err := a.requireSettings()
				if err != nil {
					return err
				}
				summary, err := a.generate(cmd.Context(), s, prompts.SummarizeText(clip(res.Stdout, clipLarge), 3))
				if err != nil {
					ui.ShowError(fmt.Sprintf("Error during AI summarization: %v", err))
					return nil
				}
				fmt.Println("\n--- Summary ---")
				fmt.Println(summary)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Show head/tail lines (positive=head, negative=tail)")
	cmd.Flags().BoolVarP(&summarize, "summarize", "s", false, "Use AI to summarize file contents")
	return cmd
}

func newPsAuxCmd(a *app) *cobra.Command {
	var analyze bool

	cmd := &cobra.Command{
		Use:   "ps-aux",
		Short: "List running processes, with an option for AI analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.exec.Run("ps aux --sort=-%mem", executor.Options{Capture: true})
			if res.Status != 0 {
				return fmt.Errorf("error running ps aux: %s", res.Stderr)
			}
			fmt.Println(res.Stdout)

			if analyze {
				s, err := a.requireSettings()
				if err != nil {
					return err
				}
				analysis, err := a.generate(cmd.Context(), s, prompts.AnalyzeProcesses(clip(res.Stdout, clipMedium)))
				if err != nil {
					ui.ShowError(fmt.Sprintf("Error during AI analysis: %v", err))
					return nil
				}
				fmt.Println("\n--- AI Analysis ---")
				fmt.Println(analysis)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Ask AI to analyze processes")
	return cmd
}

func newNikalCmd(a *app) *cobra.Command {
	var (
		force bool
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "nikal PID",
		Short: "Kill a process by its PID, with confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid PID %q", args[0])
			}

			sig := ""
			if force {
				sig = "-9"
			}
			// An empty signal leaves a double space in the command text,
			// matching what users have always seen confirmed.
			shellCmd := fmt.Sprintf("nikal %s %d", sig, pid)

			if !yes {
				confirmed, err := ui.Confirm(fmt.Sprintf("Run: %s?", shellCmd), false)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			res := a.exec.Run(shellCmd, executor.Options{Capture: true})
			if res.Status != 0 {
				return fmt.Errorf("kill failed for PID %d: %s", pid, res.Stderr)
			}
			fmt.Printf("Process %d signaled successfully.\n", pid)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "9", false, "Use SIGKILL")
	cmd.Flags().BoolVar(&yes, "yes", false, "Don't ask for confirmation")
	return cmd
}

func newPerfixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "perfix ERROR_TEXT",
		Short: "Explain a filesystem permission error and suggest a fix using AI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireSettings()
			if err != nil {
				return err
			}
			advice, err := a.generate(cmd.Context(), s, prompts.ExplainPermissionError(args[0]))
			if err != nil {
				return fmt.Errorf("error during AI explanation: %w", err)
			}
			fmt.Println(advice)
			return nil
		},
	}
}

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install PKG",
		Short: "Get AI advice on installing a software package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg := args[0]
			s, err := a.requireSettings()
			if err != nil {
				return err
			}

			advice, err := a.generate(cmd.Context(), s, prompts.PackageAdvice(pkg))
			if err != nil {
				ui.ShowWarning(fmt.Sprintf("AI could not provide package advice: %v", err))
			} else {
				fmt.Println("--- AI Package Advice ---")
				fmt.Println(advice)
			}

			if _, err := osexec.LookPath("apt"); err != nil {
				fmt.Println("Info: 'apt' not found. Please install manually using your system's package manager.")
				return nil
			}

			confirmed, err := ui.Confirm(fmt.Sprintf("Run 'sudo apt update && sudo apt install -y %s'?", pkg), false)
			if err != nil {
				return err
			}
			if !confirmed {
				return nil
			}

			shellCmd := fmt.Sprintf("sudo apt update && sudo apt install -y '%s'", pkg)
			res := a.exec.Run(shellCmd, executor.Options{})
			if res.Status != 0 {
				return fmt.Errorf("error installing package '%s': %s", pkg, res.Stderr)
			}
			fmt.Printf("Package '%s' installed successfully.\n", pkg)
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var (
		predict bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Execute a script, with an option for AI to predict its behavior first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptPath := args[0]
			text, err := os.ReadFile(scriptPath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("script file '%s' not found", scriptPath)
				}
				if os.IsPermission(err) {
					return fmt.Errorf("permission denied to read script file '%s'", scriptPath)
				}
				return fmt.Errorf("error reading script file '%s': %w", scriptPath, err)
			}

			if predict {
				s, err := a.requireSettings()
				if err != nil {
					return err
				}
				pred, err := a.generate(cmd.Context(), s, prompts.PredictScript(clip(string(text), clipLarge)))
				if err != nil {
					ui.ShowError(fmt.Sprintf("Error during AI prediction: %v", err))
				} else {
					fmt.Println("--- AI Prediction ---")
					fmt.Println(pred)
				}
			}

			if !yes {
				confirmed, err := ui.Confirm("Execute script?", false)
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			res := a.exec.Run("bash "+executor.Quote(scriptPath), executor.Options{})
			if res.Status != 0 {
				fmt.Printf("Script execution failed with error code %d.\n", res.Status)
				if res.Stderr != "" {
					fmt.Printf("Error output: %s\n", res.Stderr)
				}
				return nil
			}
			fmt.Println("Script executed successfully.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&predict, "predict", false, "Ask AI to predict runtime/side-effects before running")
	cmd.Flags().BoolVar(&yes, "yes", false, "Run without confirmation")
	return cmd
}

func newNetCmd(a *app) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "net",
		Short: "Run basic network diagnostics and get AI-powered advice",
		RunE: func(cmd *cobra.Command, args []string) error {
			pingRes := a.exec.Run("ping -c 4 "+executor.Quote(target), executor.Options{Capture: true})
			fmt.Println("--- ping ---")
			switch {
			case pingRes.Stdout != "":
				fmt.Println(pingRes.Stdout)
			case pingRes.Stderr != "":
				fmt.Println("Error: " + pingRes.Stderr)
			default:
				fmt.Println("No ping output.")
			}

			curlRes := a.exec.Run(
				fmt.Sprintf("curl -Is %s --max-time 5", executor.Quote(target)),
				executor.Options{Capture: true, Timeout: 10 * time.Second},
			)
			fmt.Println("--- curl ---")
			switch {
			case curlRes.Stdout != "":
				fmt.Println(curlRes.Stdout)
			case curlRes.Stderr != "":
				fmt.Println("Error: " + curlRes.Stderr)
			default:
				fmt.Println("No curl output.")
			}

			s, err := a.requireSettings()
			if err != nil {
				return err
			}

			diagInput := firstNonEmpty(pingRes.Stdout, pingRes.Stderr) + "\n\n" + firstNonEmpty(curlRes.Stdout, curlRes.Stderr)
			advice, err := a.generate(cmd.Context(), s, prompts.NetworkDiagnostic(clip(diagInput, clipMedium)))
			if err != nil {
				return fmt.Errorf("error during AI network diagnosis: %w", err)
			}
			fmt.Println("\n--- AI Network Advice ---")
			fmt.Println(advice)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "Host or URL")
	cmd.MarkFlagRequired("target")
	return cmd
}

func newEnvHintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "envhint CONTEXT",
		Short: "Suggest environment variables needed for an application or task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireSettings()
			if err != nil {
				return err
			}
			suggestion, err := a.generate(cmd.Context(), s, prompts.EnvSuggestion(args[0]))
			if err != nil {
				return fmt.Errorf("error during AI environment suggestion: %w", err)
			}
			fmt.Println(suggestion)
			return nil
		},
	}
}

func newGitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "git",
		Short: "Generate a conventional commit message for staged git changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.exec.Run("git diff --staged --name-only && git --no-pager diff --staged", executor.Options{Capture: true})
			if res.Status != 0 {
				return fmt.Errorf("error checking staged git changes: %s", res.Stderr)
			}
			if strings.TrimSpace(res.Stdout) == "" {
				fmt.Println("No staged changes found to generate a commit message.")
				return nil
			}

			s, err := a.requireSettings()
			if err != nil {
				return err
			}
			msg, err := a.generate(cmd.Context(), s, prompts.GitCommitMessage(clip(res.Stdout, clipMedium)))
			if err != nil {
				return fmt.Errorf("error during AI commit message generation: %w", err)
			}
			fmt.Println("--- Suggested commit message ---")
			fmt.Println(msg)
			return nil
		},
	}
}

func newSysInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sysinfo",
		Short: "Generate a system report and provide AI-powered advice",
		RunE: func(cmd *cobra.Command, args []string) error {
			probes := []struct {
				name    string
				command string
			}{
				{"uname", "uname -a"},
				{"df", "df -h"},
				{"free", "free -h"},
			}

			var parts []string
			for _, probe := range probes {
				res := a.exec.Run(probe.command, executor.Options{Capture: true})
				if res.Status != 0 {
					ui.ShowWarning(fmt.Sprintf("Could not get %s information.", probe.name))
					continue
				}
				parts = append(parts, res.Stdout)
			}

			combined := strings.Join(parts, "\n\n")
			if strings.TrimSpace(combined) == "" {
				return fmt.Errorf("failed to gather any system report data")
			}
			fmt.Println(combined)

			s, err := a.requireSettings()
			if err != nil {
				return err
			}
			advice, err := a.generate(cmd.Context(), s, prompts.SystemAdvice(clip(combined, clipMedium)))
			if err != nil {
				return fmt.Errorf("error during AI system advice: %w", err)
			}
			fmt.Println("\n--- AI System Advice ---")
			fmt.Println(advice)
			return nil
		},
	}
}

func newZipCmd(a *app) *cobra.Command {
	var (
		advice bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "zip SOURCES... DEST",
		Short: "Compress files, with an option for AI advice on the best format",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := args[:len(args)-1]
			dest := args[len(args)-1]

			if advice {
				s, err := a.requireSettings()
				if err != nil {
					return err
				}
				aiAdvice, err := a.generate(cmd.Context(), s, prompts.CompressionAdvice(clip(strings.Join(sources, "\n"), clipSmall)))
				if err != nil {
					ui.ShowError(fmt.Sprintf("Error during AI compression advice: %v", err))
				} else {
					fmt.Println("--- AI Compression Advice ---")
					fmt.Println(aiAdvice)
				}
			}

			quoted := make([]string, len(sources))
			for i, src := range sources {
				quoted[i] = executor.Quote(src)
			}
			shellCmd := fmt.Sprintf("tar -czf %s %s", executor.Quote(dest), strings.Join(quoted, " "))
			fmt.Println("Proposed command: " + shellCmd)

			if !yes {
				confirmed, err := ui.Confirm("Run compression?", false)
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			res := a.exec.Run(shellCmd, executor.Options{})
			if res.Status != 0 {
				return fmt.Errorf("compression failed: %s", res.Stderr)
			}
			fmt.Printf("Compression to %s completed successfully.\n", dest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&advice, "advice", false, "Ask AI for best compression approach")
	cmd.Flags().BoolVar(&yes, "yes", false, "Run zip without asking")
	return cmd
}

func newScheduleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule DESCRIPTION",
		Short: "Create a cron job from a natural language description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireSettings()
			if err != nil {
				return err
			}

			cronLine, err := a.generate(cmd.Context(), s, prompts.CronFromNL(args[0]))
			if err != nil {
				return fmt.Errorf("AI could not generate a cron line from your description: %w", err)
			}
			fmt.Println("Suggested Cron line:")
			fmt.Println(cronLine)

			confirmed, err := ui.Confirm("Install this crontab entry for current user?", false)
			if err != nil {
				return err
			}
			if !confirmed {
				return nil
			}

			shellCmd := fmt.Sprintf("(crontab -l 2>/dev/null; echo %s) | crontab -", executor.Quote(cronLine))
			res := a.exec.Run(shellCmd, executor.Options{Capture: true})
			if res.Status != 0 {
				return fmt.Errorf("failed to update crontab: %s", res.Stderr)
			}
			fmt.Println("Crontab updated successfully.")
			return nil
		},
	}
}

func newSudoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sudo COMMAND",
		Short: "Analyze a potentially dangerous command with AI before running it with sudo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := args[0]
			s, err := a.requireSettings()
			if err != nil {
				return err
			}

			explanation, err := a.generate(cmd.Context(), s, prompts.DryRunCheck(command))
			if err != nil {
				ui.ShowWarning("AI could not provide an analysis for the command.")
				stillRun, cerr := ui.Confirm("No AI analysis available. Do you still want to run with sudo?", false)
				if cerr != nil {
					return cerr
				}
				if !stillRun {
					fmt.Println("Aborted.")
					return nil
				}
			} else {
				fmt.Println("--- AI Analysis ---")
				fmt.Println(explanation)
			}

			confirmed, err := ui.Confirm(fmt.Sprintf("Run the command with sudo: 'sudo %s'?", command), false)
			if err != nil {
				return err
			}
			if !confirmed {
				return nil
			}

			res := a.exec.Run("sudo "+command, executor.Options{})
			if res.Status != 0 {
				if res.Stderr != "" {
					fmt.Printf("Error output: %s\n", res.Stderr)
				}
				return fmt.Errorf("command execution with sudo failed with error code %d", res.Status)
			}
			fmt.Println("Command executed with sudo successfully.")
			return nil
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
