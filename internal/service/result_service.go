package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"datachat-resultview/config"
	"datachat-resultview/internal/aggregate"
	"datachat-resultview/internal/chart"
	"datachat-resultview/internal/dto"
	"datachat-resultview/internal/export"
	"datachat-resultview/internal/kafka"
	"datachat-resultview/internal/model"
	"datachat-resultview/internal/resultview"
	"datachat-resultview/internal/store"
	"datachat-resultview/internal/table"
)

var ErrInvalidRequest = errors.New("invalid request")

const eventPublishTimeout = 5 * time.Second

type ResultService interface {
	// Register shows a new answer. An empty resultID gets a fresh id; an
	// existing one has its dataset replaced.
	Register(ctx context.Context, resultID string, payload []byte) (*dto.ResultResponse, error)
	Get(ctx context.Context, resultID string) (*dto.ResultResponse, error)
	Reload(ctx context.Context, resultID string, payload []byte) (*dto.ResultResponse, error)
	Discard(ctx context.Context, resultID string) error
	SetView(ctx context.Context, resultID string, req dto.ViewRequest) (*dto.ResultResponse, error)
	SetAggregation(ctx context.Context, resultID string, req dto.AggregationRequest) (*dto.ResultResponse, error)
	ToggleSort(ctx context.Context, resultID string, req dto.SortRequest) (*dto.ResultResponse, error)
	Search(ctx context.Context, resultID string, req dto.SearchRequest) (*dto.ResultResponse, error)
	Window(ctx context.Context, resultID string, req dto.WindowRequest) (*dto.WindowResponse, error)
	ExportTable(ctx context.Context, resultID string) (*dto.Download, error)
	ExportPivotTable(ctx context.Context, resultID string) (*dto.Download, error)
	ExportChart(ctx context.Context, resultID string, resolution string) (*dto.Download, error)
	EvictIdle(ctx context.Context) int
}

type resultService struct {
	store      store.ResultStore
	events     kafka.ResultEventProducer
	viewOpts   resultview.Options
	maxPayload int
	ttl        time.Duration
}

func NewResultService(cfg *config.Config, resultStore store.ResultStore, events kafka.ResultEventProducer) ResultService {
	kind, err := chart.ParseKind(cfg.Chart.DefaultKind)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid default chart kind, using bar")
		kind = chart.Bar
	}
	return &resultService{
		store:  resultStore,
		events: events,
		viewOpts: resultview.Options{
			Table: table.Options{
				RowHeight: cfg.Table.RowHeight,
				Overscan:  cfg.Table.Overscan,
				Debounce:  cfg.Table.SearchDebounce,
			},
			ChartKind:    kind,
			IndexDefault: cfg.Chart.DefaultIndexKey,
			Rasterizer:   chart.NewPNGRasterizer(cfg.Chart.Width, cfg.Chart.Height),
		},
		maxPayload: cfg.Result.MaxPayloadBytes,
		ttl:        cfg.Result.TTL,
	}
}

func (s *resultService) checkPayload(payload []byte) error {
	if s.maxPayload > 0 && len(payload) > s.maxPayload {
		return fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrInvalidRequest, len(payload), s.maxPayload)
	}
	return nil
}

func (s *resultService) Register(ctx context.Context, resultID string, payload []byte) (*dto.ResultResponse, error) {
	if err := s.checkPayload(payload); err != nil {
		return nil, err
	}
	if resultID != "" {
		if _, err := s.store.Get(ctx, resultID); err == nil {
			return s.Reload(ctx, resultID, payload)
		}
	} else {
		resultID = uuid.NewString()
	}

	view := resultview.New(s.viewOpts, s.compatibilityListener(resultID))
	if err := s.store.Put(ctx, resultID, view); err != nil {
		view.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	res := view.Load(payload)
	log.Info().
		Str("result_id", resultID).
		Int("rows", len(res.Rows)).
		Int("columns", len(res.Columns)).
		Bool("chart_compatible", res.HasNumericData).
		Msg("Registered answer")
	return &dto.ResultResponse{ResultId: resultID, Snapshot: view.Snapshot()}, nil
}

// compatibilityListener publishes the chart compatibility signal of every
// load. Publishing failures are logged only.
func (s *resultService) compatibilityListener(resultID string) resultview.CompatibilityListener {
	return func(compatible bool, defaultView resultview.View) {
		if s.events == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), eventPublishTimeout)
		defer cancel()
		event := model.ResultEvent{
			ResultId:        resultID,
			ChartCompatible: compatible,
			DefaultView:     string(defaultView),
			OccurredAt:      time.Now().UTC(),
		}
		if err := s.events.Produce(ctx, event); err != nil {
			log.Error().Err(err).Str("result_id", resultID).Msg("Failed to publish result event")
		}
	}
}

func (s *resultService) view(ctx context.Context, resultID string) (*resultview.Controller, error) {
	v, err := s.store.Get(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("get result %s: %w", resultID, err)
	}
	return v, nil
}

func respond(resultID string, v *resultview.Controller) *dto.ResultResponse {
	return &dto.ResultResponse{ResultId: resultID, Snapshot: v.Snapshot()}
}

func (s *resultService) Get(ctx context.Context, resultID string) (*dto.ResultResponse, error) {
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	return respond(resultID, v), nil
}

func (s *resultService) Reload(ctx context.Context, resultID string, payload []byte) (*dto.ResultResponse, error) {
	if err := s.checkPayload(payload); err != nil {
		return nil, err
	}
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	res := v.Load(payload)
	log.Info().Str("result_id", resultID).Int("rows", len(res.Rows)).Msg("Reloaded answer")
	return respond(resultID, v), nil
}

func (s *resultService) Discard(ctx context.Context, resultID string) error {
	if err := s.store.Delete(ctx, resultID); err != nil {
		return fmt.Errorf("discard result %s: %w", resultID, err)
	}
	log.Info().Str("result_id", resultID).Msg("Discarded result view")
	return nil
}

func (s *resultService) SetView(ctx context.Context, resultID string, req dto.ViewRequest) (*dto.ResultResponse, error) {
	view, err := resultview.ParseView(req.View)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	v.SetView(view)
	return respond(resultID, v), nil
}

func (s *resultService) SetAggregation(ctx context.Context, resultID string, req dto.AggregationRequest) (*dto.ResultResponse, error) {
	reducer, err := aggregate.ParseReducer(req.Reducer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	var kind chart.Kind
	if req.ChartKind != "" {
		if kind, err = chart.ParseKind(req.ChartKind); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	v.SetAggregation(aggregate.Spec{
		GroupBy:  req.GroupBy,
		SeriesBy: req.SeriesBy,
		ValueKey: req.ValueKey,
		Reducer:  reducer,
	}, kind)
	return respond(resultID, v), nil
}

func (s *resultService) ToggleSort(ctx context.Context, resultID string, req dto.SortRequest) (*dto.ResultResponse, error) {
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if err := v.Table().ToggleSort(req.Column); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return respond(resultID, v), nil
}

// Search records the term at once; rows are filtered after the debounce.
func (s *resultService) Search(ctx context.Context, resultID string, req dto.SearchRequest) (*dto.ResultResponse, error) {
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	v.Table().SetSearchTerm(req.Term)
	return respond(resultID, v), nil
}

func (s *resultService) Window(ctx context.Context, resultID string, req dto.WindowRequest) (*dto.WindowResponse, error) {
	if req.ViewportHeight < 0 || req.ScrollTop < 0 {
		return nil, fmt.Errorf("%w: negative scroll position or viewport", ErrInvalidRequest)
	}
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	e := v.Table()
	w, rows := e.Window(req.ScrollTop, req.ViewportHeight)
	return &dto.WindowResponse{
		ResultId:      resultID,
		Start:         w.Start,
		End:           w.End,
		OffsetTop:     w.OffsetTop,
		TotalHeight:   w.TotalHeight,
		FilteredCount: e.FilteredCount(),
		Rows:          rows,
	}, nil
}

func (s *resultService) ExportTable(ctx context.Context, resultID string) (*dto.Download, error) {
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	name, data, err := v.ExportTable()
	if err != nil {
		return nil, err
	}
	log.Info().Str("result_id", resultID).Int("bytes", len(data)).Msg("Exported table")
	return &dto.Download{FileName: name, ContentType: export.ContentType, Data: data}, nil
}

func (s *resultService) ExportPivotTable(ctx context.Context, resultID string) (*dto.Download, error) {
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	name, data, err := v.ExportPivotTable()
	if err != nil {
		return nil, err
	}
	log.Info().Str("result_id", resultID).Int("bytes", len(data)).Msg("Exported pivot table")
	return &dto.Download{FileName: name, ContentType: export.ContentType, Data: data}, nil
}

func (s *resultService) ExportChart(ctx context.Context, resultID string, resolution string) (*dto.Download, error) {
	var res chart.Resolution
	if resolution != "" {
		r, err := chart.ParseResolution(resolution)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		res = r
	}
	v, err := s.view(ctx, resultID)
	if err != nil {
		return nil, err
	}
	name, data, err := v.ExportChart(res)
	if err != nil {
		return nil, err
	}
	log.Info().Str("result_id", resultID).Str("file", name).Int("bytes", len(data)).Msg("Exported chart")
	return &dto.Download{FileName: name, ContentType: "image/png", Data: data}, nil
}

func (s *resultService) EvictIdle(ctx context.Context) int {
	evicted := s.store.EvictIdle(ctx, s.ttl)
	for _, id := range evicted {
		log.Info().Str("result_id", id).Dur("ttl", s.ttl).Msg("Evicted idle result view")
	}
	return len(evicted)
}
