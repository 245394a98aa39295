package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func (app *application) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + app.config.Port,
		Handler:      app.routes(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		s := <-quit

		app.logger.Info("shutting down server", slog.String("signal", s.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
			return
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", slog.String("addr", srv.Addr), slog.String("env", app.config.Environment))

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", slog.String("addr", srv.Addr))

	return nil
}

// startTestimonialRotation sizes the homepage spotlight from the approved
// testimonials and advances it until ctx is cancelled.
func (app *application) startTestimonialRotation(ctx context.Context) {
	if app.config.TestimonialInterval <= 0 {
		return
	}

	testimonials, err := app.startupService.ListTestimonials(ctx)
	if err != nil {
		app.logger.Error("failed to load testimonials", slog.String("error", err.Error()))
	}
	app.testimonials.SetLen(len(testimonials))

	go app.testimonials.Run(ctx)
}
