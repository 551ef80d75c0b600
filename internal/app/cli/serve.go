package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"time"

	"github.com/wot-oss/resx/internal/app/http"
	"github.com/wot-oss/resx/internal/app/http/cors"
	"github.com/wot-oss/resx/internal/app/http/jwt"
	"github.com/wot-oss/resx/internal/app/http/server"
	"github.com/wot-oss/resx/internal/utils"
)

const shutdownTimeout = 5 * time.Second

type ServeOptions struct {
	UrlCtxRoot    string
	CORS          cors.CORSOptions
	JWTValidation bool
	JWT           jwt.JWTValidationOpts
}

// Serve serves the container at loc over HTTP until ctx is done
func Serve(ctx context.Context, host, port, loc string, flags ContainerFlags, opts ServeOptions) error {
	log := utils.GetLogger(ctx, "cli.Serve")
	r, err := openContainer(ctx, loc, flags)
	if err != nil {
		return err
	}
	svc, err := http.NewDefaultHandlerService(r)
	if err != nil {
		Stderrf("Could not start resx server: %v", err)
		return err
	}
	defer svc.Close()
	if err := svc.CheckHealth(ctx); err != nil {
		Stderrf("Could not read %s: %v", loc, err)
		return err
	}

	mws, err := collectMiddlewares(ctx, opts)
	if err != nil {
		Stderrf("Could not start resx server: %v", err)
		return err
	}
	handler := http.NewResxHandler(svc, http.ResxHandlerOptions{UrlContextRoot: opts.UrlCtxRoot})
	httpHandler := http.NewHttpHandler(handler, mws)
	httpHandler = cors.Protect(httpHandler, opts.CORS)

	s := &nethttp.Server{
		Handler:           httpHandler,
		Addr:              net.JoinHostPort(host, port),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	fmt.Printf("Serving %s on %s\n", loc, s.Addr)
	log.Info("server started", "addr", s.Addr, "container", loc)
	err = s.ListenAndServe()
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		Stderrf("Could not start resx server on %s: %v", s.Addr, err)
		return err
	}
	return nil
}

func collectMiddlewares(ctx context.Context, opts ServeOptions) ([]server.MiddlewareFunc, error) {
	var mws []server.MiddlewareFunc
	if opts.JWTValidation {
		mw, err := jwt.GetMiddleware(ctx, opts.JWT)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}
