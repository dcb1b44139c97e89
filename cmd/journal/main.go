package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/internal/modules/storage/service/file"
	"github.com/Weewpee/autotrade-bot/internal/modules/storage/service/pg"
	"github.com/Weewpee/autotrade-bot/pkg/db"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Утилита для просмотра журнала и pending-сигналов из консоли:
//
//	go run ./cmd/journal
//	DATABASE_DSN=postgres://... go run ./cmd/journal
func main() {
	viper.SetConfigName("values_local")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")
	_ = viper.ReadInConfig() // конфиг опционален

	viper.SetDefault("store_path", "data/store.json")
	viper.SetDefault("limit", 50)
	_ = viper.BindEnv("db_dsn", "DATABASE_DSN")
	_ = viper.BindEnv("store_path", "BOT_STORE_PATH")
	_ = viper.BindEnv("limit", "JOURNAL_LIMIT")

	ctx := context.Background()
	store, closeStore, err := openStore(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	if err := dump(ctx, store, viper.GetInt("limit")); err != nil {
		log.Fatal(err)
	}
}

func openStore(ctx context.Context) (service.Store, func(), error) {
	dsn := viper.GetString("db_dsn")
	if dsn == "" {
		return file.NewStore(viper.GetString("store_path")), func() {}, nil
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: dsn})
	if err != nil {
		return nil, nil, errors.Wrap(err, "create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "ping database")
	}
	mgr := db.NewPgTxManager(pool)
	return pg.New(mgr), mgr.Close, nil
}

func dump(ctx context.Context, store service.Store, limit int) error {
	pendings, err := store.ListPending(ctx)
	if err != nil {
		return errors.Wrap(err, "list pending")
	}
	entries, err := store.ListJournal(ctx, limit)
	if err != nil {
		return errors.Wrap(err, "list journal")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "PENDING (%d)\n", len(pendings))
	fmt.Fprintln(w, "ID\tCREATED\tSIDE\tSYMBOL\tPRICE")
	for _, p := range pendings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\n",
			p.ID, p.CreatedAt.Format("2006-01-02 15:04:05"),
			strings.ToUpper(string(p.Payload.Direction)), p.Payload.Symbol, p.Payload.Price)
	}

	fmt.Fprintf(w, "\nJOURNAL (%d)\n", len(entries))
	fmt.Fprintln(w, "ID\tDECIDED\tOUTCOME\tSIDE\tSYMBOL\tPRICE\tQTY")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.4f\t%v\n",
			e.ID, e.DecidedAt.Format("2006-01-02 15:04:05"), e.Outcome,
			strings.ToUpper(string(e.Direction)), e.Symbol, e.Price, e.Quantity)
	}

	return w.Flush()
}
