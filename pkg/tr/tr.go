package tr

import (
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"
	"github.com/jackc/pgx/v5"
)

// Conn возвращает активную транзакцию (pgx.Tx) из контекста, а если её нет - сам пул.
func Conn(ctx context.Context, db trmpgx.Tr) trmpgx.Tr {
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, db)
}

// SnapshotSettings - настройки транзакции для согласованного чтения отчётов:
// все запросы внутри видят один и тот же снимок данных.
func SnapshotSettings() trm.Settings {
	return trmpgx.MustSettings(
		settings.Must(),
		trmpgx.WithTxOptions(pgx.TxOptions{
			IsoLevel:   pgx.RepeatableRead,
			AccessMode: pgx.ReadOnly,
		}),
	)
}

// ReadOnlySettings - транзакция только для чтения с уровнем изоляции по умолчанию.
func ReadOnlySettings() trm.Settings {
	return trmpgx.MustSettings(
		settings.Must(),
		trmpgx.WithTxOptions(pgx.TxOptions{AccessMode: pgx.ReadOnly}),
	)
}
