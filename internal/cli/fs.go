package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/droidlink/droidlink/internal/progress"
	"github.com/droidlink/droidlink/internal/remotefs"
	"github.com/droidlink/droidlink/internal/services"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory on the device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}
			client, _, _ := newSessionFor(dev)

			dir := cfg.DefaultRemotePath
			if len(args) == 1 {
				dir = args[0]
			}

			entries, err := client.List(ctx, dir)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\n",
					e.Permissions, entrySize(e), e.ModTime, e.Name, kindSuffix(e))
			}
			return w.Flush()
		},
	}
}

// entrySize renders the size column: human-readable when the device printed
// a numeric size, otherwise the raw field (major,minor for device nodes).
func entrySize(e remotefs.Entry) string {
	if e.SizeKnown {
		return progress.FormatSize(int64(e.SizeBytes))
	}
	return e.RawSize
}

func kindSuffix(e remotefs.Entry) string {
	switch e.Kind {
	case remotefs.KindDirectory:
		return "/"
	case remotefs.KindLink:
		return "@"
	default:
		return ""
	}
}

func newReadlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "readlink <path>",
		Short: "Print a symlink's target text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}
			client, _, _ := newSessionFor(dev)

			target, err := client.ReadLink(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(target)
			return nil
		},
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Follow symlinks to the final target path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}
			client, _, _ := newSessionFor(dev)

			final, err := client.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(final)
			return nil
		},
	}
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory on the device (with parents)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}
			client, _, _ := newSessionFor(dev)
			return client.MkdirAll(ctx, args[0])
		},
	}
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a file or directory on the device",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}
			_, _, svc := newSessionFor(dev)
			return svc.Rename(ctx, services.SideRemote, args[0], args[1])
		},
	}
}

func newMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <src> <dest-dir>",
		Short: "Move a file or directory into another device directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}
			_, _, svc := newSessionFor(dev)
			return svc.MoveRemoteToRemote(ctx, args[0], args[1])
		},
	}
}

func newCpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <src> <dest-dir>",
		Short: "Copy a device file into another device directory",
		Long: `Copy a file between two locations on the device.

adb offers no server-side copy, so the file is staged through a host
temp directory with pull and push.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}
			_, _, svc := newSessionFor(dev)
			return svc.CopyRemoteToRemote(ctx, args[0], args[1])
		},
	}
}

func newRmCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file or directory tree on the device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}

			if !force {
				ok, err := promptConfirm(fmt.Sprintf("Delete %s and everything under it?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Aborted.")
					return nil
				}
			}

			client, _, _ := newSessionFor(dev)
			return client.Remove(ctx, args[0])
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")
	return cmd
}
