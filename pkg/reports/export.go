// Package reports renders the analytical queries to CSV files for handoff to
// spreadsheets and BI tools.
package reports

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/opstream/ordersync/pkg/db"
	"github.com/opstream/ordersync/pkg/db/models/analytics"
)

// Report names accepted by Export and the reports CLI.
const (
	OpenOrdersByDate      = "open_orders_by_date_status"
	TopDeliveryDates      = "top_delivery_dates"
	PendingItemsByProduct = "pending_items_by_product"
	TopCustomers          = "top_customers_with_pending_orders"
)

// Names lists every known report in export order.
func Names() []string {
	return []string{OpenOrdersByDate, TopDeliveryDates, PendingItemsByProduct, TopCustomers}
}

// aliases are the short names the CLI accepts.
var aliases = map[string]string{
	"open-orders":        OpenOrdersByDate,
	"top-delivery-dates": TopDeliveryDates,
	"pending-items":      PendingItemsByProduct,
	"top-customers":      TopCustomers,
}

// Resolve maps a CLI name, alias or canonical, onto the report name. The
// second return is false for unknown names.
func Resolve(name string) (string, bool) {
	if canonical, ok := aliases[name]; ok {
		return canonical, true
	}
	for _, n := range Names() {
		if n == name {
			return n, true
		}
	}
	return "", false
}

// AliasNames lists the CLI short names in export order.
func AliasNames() []string {
	return []string{"open-orders", "top-delivery-dates", "pending-items", "top-customers"}
}

const dateLayout = "2006-01-02"

// Exporter runs report queries and writes each result set to a timestamped
// CSV file under OutDir.
type Exporter struct {
	Logger *zap.Logger
	Store  db.ReportStore
	OutDir string

	// Limit bounds the "top N" reports.
	Limit int
}

// Export runs one named report and returns the path of the written file.
// A report with no rows writes no file and returns an empty path.
func (e *Exporter) Export(ctx context.Context, name string) (string, error) {
	switch name {
	case OpenOrdersByDate:
		rows, err := e.Store.OpenOrdersByDateStatus(ctx)
		if err != nil {
			return "", err
		}
		return e.write(name,
			[]string{"delivery_date", "status", "order_count"},
			openOrderRecords(rows))

	case TopDeliveryDates:
		rows, err := e.Store.TopDeliveryDates(ctx, e.Limit)
		if err != nil {
			return "", err
		}
		return e.write(name,
			[]string{"delivery_date", "order_count", "unique_customers"},
			deliveryDateRecords(rows))

	case PendingItemsByProduct:
		rows, err := e.Store.PendingItemsByProduct(ctx)
		if err != nil {
			return "", err
		}
		return e.write(name,
			[]string{"product_id", "product_name", "pending_items"},
			pendingItemRecords(rows))

	case TopCustomers:
		rows, err := e.Store.TopCustomersWithPendingOrders(ctx, e.Limit)
		if err != nil {
			return "", err
		}
		return e.write(name,
			[]string{"customer_id", "customer_name", "pending_order_count", "total_pending_amount"},
			customerRecords(rows))

	default:
		return "", fmt.Errorf("unknown report %q", name)
	}
}

// ExportAll runs every report in parallel and returns the written paths.
// The first failing report fails the whole export.
func (e *Exporter) ExportAll(ctx context.Context) ([]string, error) {
	names := Names()
	paths := make([]string, len(names))
	errs := make([]error, len(names))

	pool := pond.NewPool(len(names))
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for i, name := range names {
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				return
			}
			paths[i], errs[i] = e.Export(groupCtx, name)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		e.Logger.Warn("parallel report export encountered error", zap.Error(err))
	}
	pool.StopAndWait()

	out := make([]string, 0, len(names))
	for i, name := range names {
		if errs[i] != nil {
			return nil, fmt.Errorf("export %s: %w", name, errs[i])
		}
		if paths[i] != "" {
			out = append(out, paths[i])
		}
	}

	return out, nil
}

// write renders one CSV file named <report>_<timestamp>.csv under OutDir.
func (e *Exporter) write(name string, header []string, records [][]string) (string, error) {
	if len(records) == 0 {
		e.Logger.Warn("No data to export", zap.String("report", name))
		return "", nil
	}

	if err := os.MkdirAll(e.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", e.OutDir, err)
	}

	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(e.OutDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	writeErr := w.Write(header)
	if writeErr == nil {
		writeErr = w.WriteAll(records)
	}
	closeErr := f.Close()

	if writeErr != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, closeErr)
	}

	e.Logger.Info("Data exported",
		zap.String("report", name),
		zap.String("path", path),
		zap.Int("rows", len(records)))

	return path, nil
}

func openOrderRecords(rows []analytics.OpenOrdersByDateRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.DeliveryDate.Format(dateLayout),
			r.Status,
			strconv.FormatInt(r.OrderCount, 10),
		})
	}
	return records
}

func deliveryDateRecords(rows []analytics.TopDeliveryDateRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.DeliveryDate.Format(dateLayout),
			strconv.FormatInt(r.OrderCount, 10),
			strconv.FormatInt(r.UniqueCustomers, 10),
		})
	}
	return records
}

func pendingItemRecords(rows []analytics.PendingItemsByProductRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatInt(r.ProductID, 10),
			r.ProductName,
			strconv.FormatInt(r.PendingItems, 10),
		})
	}
	return records
}

func customerRecords(rows []analytics.TopCustomerRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatInt(r.CustomerID, 10),
			r.CustomerName,
			strconv.FormatInt(r.PendingOrderCount, 10),
			r.TotalPendingAmount.StringFixed(2),
		})
	}
	return records
}
