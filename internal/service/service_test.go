package service

import (
	"bytes"
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/terrisol/watergap-backend-go/internal/database"
	"github.com/terrisol/watergap-backend-go/internal/interp"
	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/internal/repository"
)

func seededRepo(t *testing.T) (*repository.DatasetRepository, *sql.DB) {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	exec("INSERT INTO scale_levels (level, spacing_hm) VALUES (0, 80)")
	points := []struct {
		id   int64
		x, y float64
	}{
		{1, 6000, 24000}, {2, 6080, 24000}, {3, 6000, 24080}, {4, 6080, 24080},
	}
	for _, p := range points {
		exec(`INSERT INTO sample_points (id, level, lamb_x, lamb_y, commune, kc, reserve_mm)
			VALUES (?, 0, ?, ?, 'Bourges', 1.0, 100)`, p.id, p.x, p.y)
		for i, week := range []string{"2021-W10", "2021-W20", "2021-W30"} {
			base := float64(p.id) * 10
			exec("INSERT INTO weekly_values (point_id, week, metric, value) VALUES (?, ?, 'gap', ?)",
				p.id, week, base+float64(i))
			exec("INSERT INTO weekly_values (point_id, week, metric, value) VALUES (?, ?, 'stock', ?)",
				p.id, week, 100-base-float64(i))
			exec("INSERT INTO weekly_values (point_id, week, metric, value) VALUES (?, ?, 'P', ?)",
				p.id, week, 5)
			exec("INSERT INTO weekly_values (point_id, week, metric, value) VALUES (?, ?, 'ETP', ?)",
				p.id, week, 20)
		}
	}
	return repository.NewDatasetRepository(db), db
}

func TestBuildRaster(t *testing.T) {
	repo, _ := seededRepo(t)
	svc := NewRasterService(repo)

	resp, err := svc.BuildRaster(models.RasterFilter{Level: 0, Week: "2021-W20", Metric: "gap"})
	if err != nil {
		t.Fatalf("BuildRaster: %v", err)
	}

	if resp.Metric != "gap" || resp.Level != 0 || resp.Week != "2021-W20" {
		t.Errorf("response header = %+v", resp)
	}
	if len(resp.Cells) != resp.Geometry.CellCount() {
		t.Errorf("got %d cells, geometry says %d", len(resp.Cells), resp.Geometry.CellCount())
	}
	// Week 20 gap values are 11, 21, 31, 41.
	if resp.Domain.Min != 11 || resp.Domain.Max != 41 {
		t.Errorf("domain = [%g, %g], want [11, 41]", resp.Domain.Min, resp.Domain.Max)
	}
	for i, c := range resp.Cells {
		if c.Color == "" {
			t.Fatalf("cell %d has no color", i)
		}
		if c.Value < 11 || c.Value > 41 {
			t.Errorf("cell %d = %g, outside sample range", i, c.Value)
		}
	}
}

func TestBuildRasterRejectsBadParams(t *testing.T) {
	repo, _ := seededRepo(t)
	svc := NewRasterService(repo)

	if _, err := svc.BuildRaster(models.RasterFilter{Level: 0, Metric: "bogus"}); !errors.Is(err, models.ErrUnknownMetric) {
		t.Errorf("bogus metric: got %v, want ErrUnknownMetric", err)
	}
	if _, err := svc.BuildRaster(models.RasterFilter{Level: 0, Metric: "gap", Season: "winter"}); !errors.Is(err, models.ErrUnknownSeason) {
		t.Errorf("bogus season: got %v, want ErrUnknownSeason", err)
	}
	if _, err := svc.BuildRaster(models.RasterFilter{Level: 7, Metric: "gap"}); !errors.Is(err, interp.ErrEmptyDataset) {
		t.Errorf("unknown level: got %v, want ErrEmptyDataset", err)
	}
}

func TestGeometryReusedAcrossMetrics(t *testing.T) {
	repo, _ := seededRepo(t)
	svc := NewRasterService(repo)

	gap, err := svc.BuildRaster(models.RasterFilter{Level: 0, Week: "2021-W20", Metric: "gap"})
	if err != nil {
		t.Fatalf("BuildRaster (gap): %v", err)
	}
	stock, err := svc.BuildRaster(models.RasterFilter{Level: 0, Week: "2021-W20", Metric: "stock"})
	if err != nil {
		t.Fatalf("BuildRaster (stock): %v", err)
	}
	if gap.Geometry != stock.Geometry {
		t.Error("geometry changed with the metric; it depends only on positions and viewport")
	}

	// A different viewport gets its own fit.
	small, err := svc.BuildRaster(models.RasterFilter{Level: 0, Week: "2021-W20", Metric: "gap", Width: 300, Height: 300})
	if err != nil {
		t.Fatalf("BuildRaster (small): %v", err)
	}
	if small.Geometry == gap.Geometry {
		t.Error("different viewport reused the previous geometry")
	}
}

func TestGeometryFollowsWeekSubset(t *testing.T) {
	repo, db := seededRepo(t)
	svc := NewRasterService(repo)

	// An extra point that only has values in week 30 widens that week's
	// bounding box; its geometry must not be served from week 20's cache.
	if _, err := db.Exec(`INSERT INTO sample_points (id, level, lamb_x, lamb_y, commune, kc, reserve_mm)
		VALUES (5, 0, 6400, 24400, 'Bourges', 1.0, 100)`); err != nil {
		t.Fatalf("seed extra point: %v", err)
	}
	if _, err := db.Exec("INSERT INTO weekly_values (point_id, week, metric, value) VALUES (5, '2021-W30', 'gap', 60)"); err != nil {
		t.Fatalf("seed extra value: %v", err)
	}

	w20, err := svc.BuildRaster(models.RasterFilter{Level: 0, Week: "2021-W20", Metric: "gap"})
	if err != nil {
		t.Fatalf("BuildRaster (W20): %v", err)
	}
	w30, err := svc.BuildRaster(models.RasterFilter{Level: 0, Week: "2021-W30", Metric: "gap"})
	if err != nil {
		t.Fatalf("BuildRaster (W30): %v", err)
	}

	if w20.Geometry.MaxX != 6080 || w20.Geometry.MaxY != 24080 {
		t.Errorf("week 20 box max = (%g, %g), want (6080, 24080)", w20.Geometry.MaxX, w20.Geometry.MaxY)
	}
	if w30.Geometry.MaxX != 6400 || w30.Geometry.MaxY != 24400 {
		t.Errorf("week 30 box max = (%g, %g), want (6400, 24400)", w30.Geometry.MaxX, w30.Geometry.MaxY)
	}
	if w20.Geometry == w30.Geometry {
		t.Error("geometry cached across weeks with different point subsets")
	}
}

func TestLegend(t *testing.T) {
	repo, _ := seededRepo(t)
	svc := NewRasterService(repo)

	legend, err := svc.Legend(models.LegendFilter{Level: 0, Week: "2021-W20", Metric: "gap"})
	if err != nil {
		t.Fatalf("Legend: %v", err)
	}
	if legend.Metric.Key != "gap" {
		t.Errorf("legend metric = %q, want gap", legend.Metric.Key)
	}
	if len(legend.Stops) != legendStopCount {
		t.Errorf("got %d stops, want %d", len(legend.Stops), legendStopCount)
	}
	if legend.Stops[0].Value != legend.Domain.Min || legend.Stops[len(legend.Stops)-1].Value != legend.Domain.Max {
		t.Errorf("stops span [%g, %g], want domain [%g, %g]",
			legend.Stops[0].Value, legend.Stops[len(legend.Stops)-1].Value,
			legend.Domain.Min, legend.Domain.Max)
	}
}

func TestSeriesAndSummary(t *testing.T) {
	repo, _ := seededRepo(t)
	svc := NewSeriesService(repo)

	resp, err := svc.Series(2, models.SeasonAll)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if resp.PointID != 2 || resp.Level != 0 || resp.Commune != "Bourges" {
		t.Errorf("response header = %+v", resp)
	}
	if len(resp.Weeks) != 3 {
		t.Fatalf("got %d weeks, want 3", len(resp.Weeks))
	}
	// Point 2 gap series is 20, 21, 22.
	gap := resp.Series["gap"]
	if len(gap) != 3 || gap[0] != 20 || gap[2] != 22 {
		t.Errorf("gap series = %v, want [20 21 22]", gap)
	}

	sum := resp.Summary
	if sum.TotalGap != 63 {
		t.Errorf("TotalGap = %g, want 63", sum.TotalGap)
	}
	if sum.TotalPrecipitation != 15 || sum.TotalETP != 60 {
		t.Errorf("totals P/ETP = %g/%g, want 15/60", sum.TotalPrecipitation, sum.TotalETP)
	}
	if sum.WeeksWithGap != 3 || sum.MaxGap != 22 {
		t.Errorf("deficit stats = %d weeks, max %g; want 3, 22", sum.WeeksWithGap, sum.MaxGap)
	}
	if sum.MinStock != 78 || math.Abs(sum.MeanStock-79) > 1e-12 {
		t.Errorf("stock stats = min %g, mean %g; want 78, 79", sum.MinStock, sum.MeanStock)
	}
}

func TestSeriesSeasonFilterIsExplicit(t *testing.T) {
	repo, _ := seededRepo(t)
	svc := NewSeriesService(repo)

	growing, err := svc.Series(1, models.SeasonGrowing)
	if err != nil {
		t.Fatalf("Series (growing): %v", err)
	}
	// Week 10 falls outside the growing season.
	if len(growing.Weeks) != 2 || growing.Season != "growing" {
		t.Errorf("growing series = %v (%s), want 2 weeks", growing.Weeks, growing.Season)
	}

	all, err := svc.Series(1, models.SeasonAll)
	if err != nil {
		t.Fatalf("Series (all): %v", err)
	}
	if len(all.Weeks) != 3 {
		t.Errorf("unfiltered series = %v, want 3 weeks", all.Weeks)
	}

	if _, err := svc.Series(404, models.SeasonAll); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("unknown point: got %v, want sql.ErrNoRows", err)
	}
}

func TestSeriesChartPNG(t *testing.T) {
	repo, _ := seededRepo(t)
	svc := NewSeriesService(repo)

	png, err := svc.Chart(1, models.SeasonAll)
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("chart output is not a PNG")
	}
}

func TestPoints(t *testing.T) {
	repo, db := seededRepo(t)
	raster := NewRasterService(repo)
	svc := NewDatasetService(repo, raster)

	records, err := svc.Points(models.PointsFilter{Level: 0, Week: "2021-W20", Metric: "gap"})
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	for _, r := range records {
		if r.Lat < 41 || r.Lat > 52 || r.Lon < -6 || r.Lon > 10 {
			t.Errorf("point %d maps to (%g, %g), outside metropolitan France", r.ID, r.Lat, r.Lon)
		}
	}

	// Points without the requested metric are dropped.
	if _, err := db.Exec("DELETE FROM weekly_values WHERE point_id = 4 AND metric = 'gap'"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	svc.Reload()
	records, err = svc.Points(models.PointsFilter{Level: 0, Week: "2021-W20", Metric: "gap"})
	if err != nil {
		t.Fatalf("Points (after delete): %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records after delete, want 3", len(records))
	}
}

func TestReloadClearsCaches(t *testing.T) {
	repo, db := seededRepo(t)
	raster := NewRasterService(repo)
	svc := NewDatasetService(repo, raster)

	before, err := raster.BuildRaster(models.RasterFilter{Level: 0, Week: "2021-W20", Metric: "gap"})
	if err != nil {
		t.Fatalf("BuildRaster: %v", err)
	}

	if _, err := db.Exec("UPDATE weekly_values SET value = value + 100 WHERE metric = 'gap'"); err != nil {
		t.Fatalf("update: %v", err)
	}

	stale, err := raster.BuildRaster(models.RasterFilter{Level: 0, Week: "2021-W20", Metric: "gap"})
	if err != nil {
		t.Fatalf("BuildRaster (stale): %v", err)
	}
	if stale.Domain != before.Domain {
		t.Error("update visible before reload; samples should be memoized")
	}

	svc.Reload()
	fresh, err := raster.BuildRaster(models.RasterFilter{Level: 0, Week: "2021-W20", Metric: "gap"})
	if err != nil {
		t.Fatalf("BuildRaster (fresh): %v", err)
	}
	if fresh.Domain.Min != before.Domain.Min+100 || fresh.Domain.Max != before.Domain.Max+100 {
		t.Errorf("domain after reload = %+v, want %+v shifted by 100", fresh.Domain, before.Domain)
	}
}
