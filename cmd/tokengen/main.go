// Command tokengen mints an API bearer token from the configured JWT secret,
// for handing out to ERP clients of the e-Factura API.
//
//	JWT_SECRET=... go run ./cmd/tokengen -client erp-client-01 -cif 18547290 -minutes 1440
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/facturis/efactura-pro/pkg/config"
	"github.com/facturis/efactura-pro/pkg/jwt"
)

func main() {
	clientID := flag.String("client", "", "client identifier embedded in the token")
	cif := flag.String("cif", "", "fiscal code (CIF) the client acts for")
	minutes := flag.Int("minutes", 60, "token validity in minutes")
	flag.Parse()

	if *clientID == "" {
		fmt.Fprintln(os.Stderr, "tokengen: -client is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tokengen: load configuration:", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "tokengen: JWT_SECRET is not configured")
		os.Exit(1)
	}

	token, err := jwt.Generate(cfg.JWT.Secret, *clientID, *cif, cfg.JWT.Issuer, *minutes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tokengen:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
