package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/droidlink/droidlink/internal/localfs"
	"github.com/droidlink/droidlink/internal/progress"
	"github.com/droidlink/droidlink/internal/transfer"
	"github.com/droidlink/droidlink/internal/util/sanitize"
)

// maxConcurrentTransfers bounds parallel pull/push subprocesses in batch
// mode; each one is its own adb process and the device serializes I/O
// anyway.
const maxConcurrentTransfers = 4

func newPullCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "pull <remote-path>...",
		Short: "Download files from the device",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}
			client, engine, _ := newSessionFor(dev)

			if len(args) == 1 {
				remote := args[0]
				local := filepath.Join(outDir, sanitize.Filename(sanitize.RemoteBase(remote)))
				return runWithSingleBar(ctx, remote, func(onProgress transfer.ProgressFunc) error {
					return engine.Download(ctx, remote, local, onProgress)
				})
			}

			ui := progress.NewMultiUI(len(args))
			var wg sync.WaitGroup
			sem := make(chan struct{}, maxConcurrentTransfers)
			errs := make([]error, len(args))

			for i, remote := range args {
				size, err := client.FileSize(ctx, remote)
				if err != nil {
					size = 100 // percent-out-of-100 fallback
				}
				local := filepath.Join(outDir, sanitize.Filename(sanitize.RemoteBase(remote)))
				bar := ui.AddBar(i+1, remote, local, size)

				wg.Add(1)
				go func(i int, remote, local string, bar *progress.TransferBar) {
					defer wg.Done()
					sem <- struct{}{}
					defer func() { <-sem }()

					err := engine.Download(ctx, remote, local, func(transferred, _ int64) {
						bar.Update(transferred)
					})
					bar.Complete(err)
					errs[i] = err
				}(i, remote, local, bar)
			}

			wg.Wait()
			ui.Wait()
			return firstError(errs)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "Local destination directory")
	return cmd
}

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <local-path>... <remote-dir>",
		Short: "Upload files or directories to the device",
		Long: `Upload files to a device directory.

A directory argument is walked and its files pushed one by one, keeping
the tree layout under the directory's own basename. Hidden files and
directories are skipped.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dev, err := activeDevice(ctx)
			if err != nil {
				return err
			}
			_, engine, _ := newSessionFor(dev)

			items, err := expandPushArgs(args[:len(args)-1], args[len(args)-1])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("nothing to push")
			}

			if len(items) == 1 {
				it := items[0]
				return runWithSingleBar(ctx, it.local, func(onProgress transfer.ProgressFunc) error {
					return engine.Upload(ctx, it.local, it.remote, onProgress)
				})
			}

			ui := progress.NewMultiUI(len(items))
			var wg sync.WaitGroup
			sem := make(chan struct{}, maxConcurrentTransfers)
			errs := make([]error, len(items))

			for i, it := range items {
				bar := ui.AddBar(i+1, it.local, it.remote, localSize(it.local))

				wg.Add(1)
				go func(i int, it pushItem, bar *progress.TransferBar) {
					defer wg.Done()
					sem <- struct{}{}
					defer func() { <-sem }()

					err := engine.Upload(ctx, it.local, it.remote, func(transferred, _ int64) {
						bar.Update(transferred)
					})
					bar.Complete(err)
					errs[i] = err
				}(i, it, bar)
			}

			wg.Wait()
			ui.Wait()
			return firstError(errs)
		},
	}
}

// pushItem pairs one local file with its device-side destination.
type pushItem struct {
	local  string
	remote string
}

// expandPushArgs maps each local argument to a destination under remoteDir.
// Plain files land directly in remoteDir; directories are walked and their
// files pushed individually, mirroring the subtree under the directory's
// basename. The device-side parents are created by the engine per file.
func expandPushArgs(locals []string, remoteDir string) ([]pushItem, error) {
	var items []pushItem
	for _, local := range locals {
		info, err := os.Stat(local)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			items = append(items, pushItem{
				local:  local,
				remote: sanitize.JoinRemote(remoteDir, filepath.Base(local)),
			})
			continue
		}

		root := filepath.Clean(local)
		err = localfs.WalkFiles(root, localfs.WalkOptions{SkipHiddenDirs: true}, func(entry localfs.Entry) error {
			rel, err := filepath.Rel(root, entry.Path)
			if err != nil {
				return err
			}
			items = append(items, pushItem{
				local:  entry.Path,
				remote: sanitize.JoinRemote(remoteDir, filepath.Base(root), filepath.ToSlash(rel)),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// runWithSingleBar runs one transfer behind a single progress bar, starting
// the bar lazily at the first tick so the total reflects what the engine
// determined.
func runWithSingleBar(_ context.Context, description string, run func(transfer.ProgressFunc) error) error {
	bar := progress.NewSingleBar()
	started := false

	err := run(func(transferred, total int64) {
		if !started {
			bar.Start(total, description)
			started = true
		}
		bar.Update(transferred)
	})
	if err != nil {
		bar.Error(err)
		return err
	}
	bar.Finish()
	return nil
}

func localSize(path string) int64 {
	if info, err := os.Stat(path); err == nil {
		return info.Size()
	}
	return 100
}

func firstError(errs []error) error {
	failures := 0
	var first error
	for _, err := range errs {
		if err != nil {
			failures++
			if first == nil {
				first = err
			}
		}
	}
	if failures > 1 {
		return fmt.Errorf("%d transfers failed, first error: %w", failures, first)
	}
	return first
}
