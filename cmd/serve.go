package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wot-oss/resx/internal/app/cli"
	"github.com/wot-oss/resx/internal/app/http/cors"
	"github.com/wot-oss/resx/internal/app/http/jwt"
	"github.com/wot-oss/resx/internal/config"
	"github.com/wot-oss/resx/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve <CONTAINER>",
	Short: "Serve the entries of a container over HTTP",
	Long: `Serve the entries of a container over a read-only HTTP API.
The container is read once at startup. Entry values are materialized on request.`,
	Args: cobra.ExactArgs(1),
	Run:  serve,
}

func init() {
	RootCmd.AddCommand(serveCmd)
	addContainerFlags(serveCmd)
	serveCmd.Flags().StringP("host", "", "0.0.0.0", "serve with this host name")
	serveCmd.Flags().StringP("port", "", "8080", "serve with this port")
	serveCmd.Flags().String("urlContextRoot", "", "define additional URL context root path to be considered in hypermedia links,\ncan also be set via environment variable RESX_URLCONTEXTROOT")
	serveCmd.Flags().String("corsAllowedOrigins", "", "set comma-separated list for CORS allowed origins,\ncan also be set via environment variable RESX_CORSALLOWEDORIGINS")
	serveCmd.Flags().String("corsAllowedHeaders", "", "set comma-separated list for CORS allowed headers,\ncan also be set via environment variable RESX_CORSALLOWEDHEADERS")
	serveCmd.Flags().Bool("corsAllowCredentials", false, "set CORS allow credentials,\ncan also be set via environment variable RESX_CORSALLOWCREDENTIALS")
	serveCmd.Flags().Int("corsMaxAge", 0, "set how long result of CORS preflight request can be cached in seconds (default 0, max 600),\ncan also be set via environment variable RESX_CORSMAXAGE")
	serveCmd.Flags().Bool("jwtValidation", false, "if set to 'true', jwt tokens are used to grant access to the API,\ncan also be set via environment variable RESX_JWTVALIDATION")
	serveCmd.Flags().String("jwtServiceId", "", "if jwtValidation == true, this is the service ID to verify against the token's 'aud' claim,\ncan also be set via environment variable RESX_JWTSERVICEID")
	serveCmd.Flags().String("jwksUrl", "", "URL to periodically fetch JSON Web Key Sets for token validation,\ncan also be set via environment variable RESX_JWKSURL")

	_ = viper.BindPFlag(config.KeyUrlContextRoot, serveCmd.Flags().Lookup("urlContextRoot"))
	_ = viper.BindPFlag(config.KeyCorsAllowedOrigins, serveCmd.Flags().Lookup("corsAllowedOrigins"))
	_ = viper.BindPFlag(config.KeyCorsAllowedHeaders, serveCmd.Flags().Lookup("corsAllowedHeaders"))
	_ = viper.BindPFlag(config.KeyCorsAllowCredentials, serveCmd.Flags().Lookup("corsAllowCredentials"))
	_ = viper.BindPFlag(config.KeyCorsMaxAge, serveCmd.Flags().Lookup("corsMaxAge"))
	_ = viper.BindPFlag(config.KeyJWTValidation, serveCmd.Flags().Lookup("jwtValidation"))
	_ = viper.BindPFlag(config.KeyJWTServiceID, serveCmd.Flags().Lookup("jwtServiceId"))
	_ = viper.BindPFlag(config.KeyJWKSURL, serveCmd.Flags().Lookup("jwksUrl"))
}

func serve(cmd *cobra.Command, args []string) {
	host := cmd.Flag("host").Value.String()
	port := cmd.Flag("port").Value.String()

	opts := cli.ServeOptions{
		UrlCtxRoot:    viper.GetString(config.KeyUrlContextRoot),
		CORS:          getCORSOptions(),
		JWTValidation: viper.GetBool(config.KeyJWTValidation),
		JWT:           getJWKSOptions(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := cli.Serve(ctx, host, port, args[0], containerFlags(cmd), opts)
	if err != nil {
		cli.Stderrf("serve failed")
		os.Exit(1)
	}
}

func getCORSOptions() cors.CORSOptions {
	opts := cors.CORSOptions{}
	opts.AddAllowedOrigins(utils.ParseAsList(viper.GetString(config.KeyCorsAllowedOrigins), cli.DefaultListSeparator, true)...)
	opts.AddAllowedHeaders(utils.ParseAsList(viper.GetString(config.KeyCorsAllowedHeaders), cli.DefaultListSeparator, true)...)
	opts.AllowCredentials(viper.GetBool(config.KeyCorsAllowCredentials))
	opts.MaxAge(viper.GetInt(config.KeyCorsMaxAge))
	return opts
}

func getJWKSOptions() jwt.JWTValidationOpts {
	return jwt.JWTValidationOpts{
		JWTServiceID:  viper.GetString(config.KeyJWTServiceID),
		JWKSURLString: viper.GetString(config.KeyJWKSURL),
	}
}
