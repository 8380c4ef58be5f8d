package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"favtrax/internal/proxy"
	"favtrax/internal/shared"
)

// ProxyGet shows the scheme the worker is currently rewriting with.
func (r *Runner) ProxyGet(ctx context.Context, cmd *cli.Command) error {
	scheme, err := r.session.ProxyScheme(ctx)
	if err != nil {
		return fmt.Errorf("failed to read proxy scheme: %w", err)
	}

	return r.writeJSON(scheme, true)
}

// ProxySet activates a scheme for every search dispatched after it returns.
//
// Either a configured scheme name or a raw --pattern is accepted; the worker
// validates the scheme before switching and keeps the old one on rejection.
func (r *Runner) ProxySet(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	pattern := cmd.String("pattern")

	var scheme proxy.Scheme
	var err error

	switch {
	case name != "" && pattern != "":
		return fmt.Errorf("%w: pass a scheme name or --pattern, not both", shared.ErrInvalidArgument)
	case name != "":
		if scheme, err = r.config.FindScheme(name); err != nil {
			return err
		}
	case pattern != "":
		scheme = proxy.Scheme{Name: "custom", Encode: cmd.Bool("encode"), Pattern: pattern}
	default:
		return fmt.Errorf("%w: scheme name or --pattern", shared.ErrMissingArgument)
	}

	if err := r.session.SetProxyScheme(ctx, scheme); err != nil {
		return fmt.Errorf("failed to set proxy scheme: %w", err)
	}

	r.logger.Info("proxy scheme activated", "scheme", scheme.Name)
	return r.writePlain("active scheme: %s\n", scheme.Name)
}

// ProxyList lists the candidate schemes from the configuration.
func (r *Runner) ProxyList(ctx context.Context, cmd *cli.Command) error {
	for _, scheme := range r.config.Proxy.Schemes {
		marker := " "
		if scheme.Name == r.config.Proxy.Default {
			marker = "*"
		}
		r.writePlain("%s %-12s encode=%-5v %s\n", marker, scheme.Name, scheme.Encode, scheme.Pattern)
	}
	return nil
}
