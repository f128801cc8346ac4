package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/opsxjacky/bond-rebalancer/internal/portfolio"
	"github.com/opsxjacky/bond-rebalancer/internal/strategy"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

const (
	maxBodyBytes = 4 << 20

	endpointRebalance = "rebalance"
	endpointBatch     = "batch"

	kindInvalidRequest = "invalid_request"
	resultOK           = "ok"
)

// BatchRequest 批量再平衡请求
type BatchRequest struct {
	Portfolios []types.Portfolio `json:"portfolios"`
}

// BatchResponse 批量再平衡响应
type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

// BatchResult 批量再平衡单项
type BatchResult struct {
	PortfolioID string                 `json:"portfolio_id"`
	Result      *types.RebalanceResult `json:"result,omitempty"`
	Error       *ErrorBody             `json:"error,omitempty"`
}

// ErrorBody 错误详情
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, strategy.List())
}

func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var p types.Portfolio
	if err := s.decode(w, r, &p); err != nil {
		s.metrics.ObserveRequest(endpointRebalance, "", kindInvalidRequest, time.Since(start))
		s.writeError(w, http.StatusBadRequest, kindInvalidRequest, err.Error())
		return
	}
	s.applyDefaults(&p)

	result, err := s.rebalance(p)
	if err != nil {
		s.metrics.ObserveRequest(endpointRebalance, p.Strategy, errorKind(err), time.Since(start))
		s.writeDomainError(w, err)
		return
	}

	s.metrics.ObserveRequest(endpointRebalance, p.Strategy, resultOK, time.Since(start))
	s.metrics.ObserveResult(result)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRebalanceBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BatchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.metrics.ObserveRequest(endpointBatch, "", kindInvalidRequest, time.Since(start))
		s.writeError(w, http.StatusBadRequest, kindInvalidRequest, err.Error())
		return
	}
	if len(req.Portfolios) == 0 {
		err := types.NewValidationError("portfolios", "must contain at least one portfolio")
		s.metrics.ObserveRequest(endpointBatch, "", errorKind(err), time.Since(start))
		s.writeDomainError(w, err)
		return
	}

	results := make([]BatchResult, len(req.Portfolios))
	strategies := make([]types.StrategyType, len(req.Portfolios))
	valid := make([]types.Portfolio, 0, len(req.Portfolios))
	index := make([]int, 0, len(req.Portfolios))
	for i := range req.Portfolios {
		p := req.Portfolios[i]
		s.applyDefaults(&p)
		results[i].PortfolioID = p.PortfolioID
		strategies[i] = p.Strategy
		if err := portfolio.ValidateFields(p); err != nil {
			results[i].Error = toErrorBody(err)
			continue
		}
		valid = append(valid, p)
		index = append(index, i)
	}

	items, err := s.engine.RebalanceBatch(r.Context(), valid, s.now())
	if err != nil {
		s.log.Warn().Err(err).Int("portfolios", len(req.Portfolios)).Msg("Batch rebalance aborted")
		s.metrics.ObserveRequest(endpointBatch, "", string(types.KindComputation), time.Since(start))
		s.writeError(w, http.StatusServiceUnavailable, string(types.KindComputation), err.Error())
		return
	}
	for j, item := range items {
		i := index[j]
		if item.Err != nil {
			results[i].Error = toErrorBody(item.Err)
			continue
		}
		results[i].Result = item.Result
		s.metrics.ObserveResult(*item.Result)
	}

	for i, res := range results {
		outcome := resultOK
		if res.Error != nil {
			outcome = res.Error.Kind
		}
		s.metrics.CountRequest(endpointBatch, strategies[i], outcome)
	}
	s.metrics.RequestDuration.WithLabelValues(endpointBatch).Observe(time.Since(start).Seconds())
	s.writeJSON(w, http.StatusOK, BatchResponse{Results: results})
}

// rebalance 边界校验后调用引擎
func (s *Server) rebalance(p types.Portfolio) (types.RebalanceResult, error) {
	if err := portfolio.ValidateFields(p); err != nil {
		return types.RebalanceResult{}, err
	}
	return s.engine.Rebalance(p, portfolio.EvaluationDate(p, s.now()))
}

// applyDefaults 未指定策略时使用服务默认策略
func (s *Server) applyDefaults(p *types.Portfolio) {
	if p.Strategy == "" {
		p.Strategy = s.defaultStrategy
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body: " + err.Error())
	}
	return nil
}

// statusFor 错误类别 -> HTTP状态码
func statusFor(err error) int {
	switch types.KindOf(err) {
	case types.KindValidation, types.KindInvalidInput:
		return http.StatusUnprocessableEntity
	case types.KindMissingParameter:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorKind(err error) string {
	if kind := types.KindOf(err); kind != "" {
		return string(kind)
	}
	return string(types.KindComputation)
}

func toErrorBody(err error) *ErrorBody {
	return &ErrorBody{Kind: errorKind(err), Message: err.Error()}
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("Rebalance failed")
	}
	body := toErrorBody(err)
	s.writeError(w, status, body.Kind, body.Message)
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeJSON(w, status, errorResponse{Error: ErrorBody{Kind: kind, Message: message}})
}

// writeJSON 输出JSON响应
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
