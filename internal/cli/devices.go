package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List connected devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			reg := newRegistry()

			devices := reg.List(ctx)
			if len(devices) == 0 {
				fmt.Println("No devices found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SERIAL\tSTATUS\tNAME")
			for _, d := range devices {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, d.Status, d.DisplayName)
			}
			return w.Flush()
		},
	}
}

func newNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name <serial>",
		Short: "Show a device's human-readable model name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := newRegistry()
			fmt.Println(reg.Name(GetContext(), args[0]))
			return nil
		},
	}
}

func newPairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pair <ip:port> [code]",
		Short: "Pair with a device over Wi-Fi",
		Long: `Pair with a device advertising wireless debugging.

The pairing address and code are shown on the device under
Developer options > Wireless debugging > Pair device with pairing code.
If the code is omitted it is prompted for interactively.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := ""
			if len(args) == 2 {
				code = args[1]
			} else {
				var err error
				code, err = promptLine("Pairing code: ")
				if err != nil {
					return err
				}
			}

			reg := newRegistry()
			msg, err := reg.Pair(GetContext(), args[0], code)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <ip:port>",
		Short: "Connect to a paired device over the network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := newRegistry()
			msg, err := reg.Connect(GetContext(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func newMDNSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mdns",
		Short: "Discover devices advertising a pairing service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := newRegistry()
			found := reg.DiscoverPairingServices(GetContext())
			if len(found) == 0 {
				fmt.Println("No pairing services found. Is wireless debugging pairing open on the device?")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tADDRESS")
			for _, s := range found {
				fmt.Fprintf(w, "%s\t%s:%s\n", s.Name, s.IP, s.Port)
			}
			return w.Flush()
		},
	}
}

func newRestartServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart-server",
		Short: "Restart the adb server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := newRegistry()
			msg, err := reg.RestartServer(GetContext())
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}
