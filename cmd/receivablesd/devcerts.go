package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/tlsutil"
)

func newDevCertsCmd() *cobra.Command {
	var (
		hosts    []string
		outDir   string
		validFor time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dev-certs",
		Short: "Write a throwaway CA and server certificate for local TLS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			certs, err := tlsutil.GenerateDevCertificates(hosts, outDir, validFor)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "GRPC_TLS_CERT_FILE=%s\n", certs.CertFile)
			fmt.Fprintf(out, "GRPC_TLS_KEY_FILE=%s\n", certs.KeyFile)
			fmt.Fprintf(out, "# trust %s on the client side\n", certs.CAFile)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&hosts, "host", []string{"localhost", "127.0.0.1"}, "DNS names or IPs the certificate is valid for")
	cmd.Flags().StringVar(&outDir, "out", "certs", "Output directory")
	cmd.Flags().DurationVar(&validFor, "valid-for", 30*24*time.Hour, "Certificate lifetime")
	return cmd
}
