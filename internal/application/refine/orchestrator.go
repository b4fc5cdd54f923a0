package refine

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"

	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/domain/refine"
	domainservice "prompt-refinery-api/internal/domain/service"
	"prompt-refinery-api/internal/workflow/port"
	"prompt-refinery-api/pkg/errors"
	"prompt-refinery-api/pkg/logger"
	"prompt-refinery-api/pkg/metrics"
)

// Orchestrator 精炼流程编排器
// 一次 Refine 驱动 1-3 次上游调用：主调用必发，预览/定稿补充调用
// 按主调用结果缺什么补什么。
type Orchestrator struct {
	generator port.Generator
	cacheMgr  *CacheManager
	recorder  domainservice.UsageRecorder
	cfg       config.RefinerConfig
}

// NewOrchestrator 创建编排器
func NewOrchestrator(generator port.Generator, cacheMgr *CacheManager, recorder domainservice.UsageRecorder, cfg config.RefinerConfig) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		cacheMgr:  cacheMgr,
		recorder:  recorder,
		cfg:       cfg,
	}
}

// 各类调用的采样温度
const (
	primaryTemperature         float32 = 0.6
	previewTemperature         float32 = 0.4
	finalTemperature           float32 = 0.6
	previewFallbackTemperature float32 = 0.3
)

// 补充调用的思考预算上限
const (
	previewBudgetCap         int32 = 2048
	previewFallbackBudgetCap int32 = 1024
)

func minBudget(budget, limit int32) int32 {
	if budget < limit {
		return budget
	}
	return limit
}

// buildParts 组装多模态输入：图片段在前、文本段在后
func buildParts(text string, assets []refine.AssetRef) []port.Part {
	var parts []port.Part
	for _, a := range assets {
		if a.MimeType == "" || a.DataURI == "" {
			continue
		}
		payload := a.DataURI
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			continue
		}
		parts = append(parts, port.InlinePart(a.MimeType, data))
	}
	parts = append(parts, port.TextPart(text))
	return parts
}

// mergeAnswers 合并模型推荐答案与用户答案，用户选择覆盖推荐
// 保持插入顺序：先推荐的问题序，再追加只有用户回答过的问题。
func mergeAnswers(recommended, user []refine.Answer) []refine.Answer {
	index := make(map[string]int, len(recommended)+len(user))
	merged := make([]refine.Answer, 0, len(recommended)+len(user))
	for _, a := range recommended {
		if pos, ok := index[a.QuestionID]; ok {
			merged[pos].OptionID = a.OptionID
			continue
		}
		index[a.QuestionID] = len(merged)
		merged = append(merged, a)
	}
	for _, a := range user {
		if pos, ok := index[a.QuestionID]; ok {
			merged[pos].OptionID = a.OptionID
			continue
		}
		index[a.QuestionID] = len(merged)
		merged = append(merged, a)
	}
	return merged
}

// annotateRecommendedOptions 把 recommendedAnswers 回写成选项上的推荐标记
// 模型已经在某题标过 recommended 时不再改动该题。
func annotateRecommendedOptions(questions []refine.QuestionItem, recommended []refine.Answer) []refine.QuestionItem {
	if len(questions) == 0 {
		return questions
	}
	recMap := make(map[string]string, len(recommended))
	for _, r := range recommended {
		recMap[r.QuestionID] = r.OptionID
	}
	out := make([]refine.QuestionItem, len(questions))
	for i, q := range questions {
		out[i] = q
		recOptID, ok := recMap[q.ID]
		if !ok {
			continue
		}
		hasAny := false
		for _, o := range q.Options {
			if o.Recommended {
				hasAny = true
				break
			}
		}
		if hasAny {
			continue
		}
		opts := make([]refine.QuestionOption, len(q.Options))
		copy(opts, q.Options)
		for j := range opts {
			if opts[j].ID == recOptID {
				opts[j].Recommended = true
			}
		}
		out[i].Options = opts
	}
	return out
}

// callModel 发起一次上游生成调用并归一化用量
func (o *Orchestrator) callModel(ctx context.Context, apiKey, conversationID, call string, req port.GenerateRequest) (string, *refine.UsageMetadata, error) {
	start := time.Now()
	result, err := o.generator.Generate(ctx, apiKey, req)
	metrics.UpstreamCallDuration.WithLabelValues(req.Model, call).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallTotal.WithLabelValues(req.Model, call, "error").Inc()
		if appErr, ok := err.(*errors.AppError); ok {
			return "", nil, appErr
		}
		return "", nil, errors.ErrUpstreamError.WithError(err)
	}
	metrics.UpstreamCallTotal.WithLabelValues(req.Model, call, "success").Inc()

	usage := NormalizeUsage(result.Usage)
	if usage != nil {
		metrics.UpstreamTokensUsed.WithLabelValues(req.Model, "prompt").Add(float64(usage.PromptTokenCount))
		metrics.UpstreamTokensUsed.WithLabelValues(req.Model, "candidates").Add(float64(usage.CandidatesTokenCount))
		metrics.UpstreamTokensUsed.WithLabelValues(req.Model, "cached").Add(float64(usage.CachedContentTokenCount))
	}
	if o.recorder != nil {
		o.recorder.Record(ctx, domainservice.UsageRecord{
			ConversationID: conversationID,
			Model:          req.Model,
			Call:           call,
			Usage:          usage,
		})
	}
	return result.Text, usage, nil
}

// Refine 精炼一轮用户输入，返回完整响应信封
func (o *Orchestrator) Refine(ctx context.Context, apiKey string, req *refine.RefineRequest) (*refine.RefineResponse, error) {
	if req.Family != refine.FamilyImage {
		return nil, errors.ErrImageOnlyForNow
	}
	if apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}

	start := time.Now()
	persona := PersonaForFamily(req.Family)
	hasImages := req.HasImages()
	modelName := o.cfg.Model
	thinkingBudget := o.cfg.ThinkingBudget

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	ctx = logger.WithContext(ctx, logger.ConversationIDKey, conversationID)
	revision := len(req.Answers) + 1

	// 解析缓存模式与规范化键
	mode := refine.CacheMode(o.cfg.Cache.DefaultMode)
	var requestedName string
	var requestedKey string
	var ttlSeconds int
	forceRefresh := false
	if req.Cache != nil {
		if m, ok := refine.ParseCacheMode(req.Cache.Mode); ok {
			mode = m
		}
		requestedName = req.Cache.CachedContentName
		requestedKey = req.Cache.Key
		ttlSeconds = req.Cache.TTLSeconds
		forceRefresh = req.Cache.ForceRefresh
	}
	assetsDigest := BuildAssetsDigest(req.Assets)
	computedKey := BuildCacheKey(CacheKeyParams{
		ModelName:           modelName,
		Family:              req.Family,
		InstructionPresetID: req.InstructionPresetID,
		RawPrompt:           req.RawPrompt,
		HasImages:           hasImages,
		AssetsDigest:        assetsDigest,
	})
	key := requestedKey
	if key == "" {
		key = computedKey
	}

	cachedContentName := ""
	cacheCreated := false
	var cacheExpireTime time.Time

	useExplicit := mode.Explicit()
	if useExplicit {
		name := requestedName
		// 客户端键与重算键不一致说明输入已变化，丢弃携带的缓存名防止陈旧复用
		if requestedKey != "" && requestedKey != computedKey {
			logger.Debug(ctx, "缓存键不匹配，丢弃客户端缓存名",
				"provided", requestedKey, "computed", computedKey, "name", name)
			name = ""
		}
		if forceRefresh {
			name = ""
		}
		prefix := BuildCachedPrefix(req, hasImages)
		ensured := o.cacheMgr.Ensure(ctx, apiKey, port.CachedContentSpec{
			Model:             modelName,
			Parts:             buildParts(prefix, req.Assets),
			SystemInstruction: persona,
			TTL:               o.cacheMgr.ResolveTTL(ttlSeconds),
		}, name)
		if ensured.OK {
			cachedContentName = ensured.Name
			cacheCreated = ensured.Created
			cacheExpireTime = ensured.ExpireTime
		}
	}
	cacheHit := useExplicit && cachedContentName != ""

	// 主调用
	primaryReq := port.GenerateRequest{
		Model:          modelName,
		Temperature:    ptr(primaryTemperature),
		ThinkingBudget: ptr(thinkingBudget),
		Schema:         port.SchemaRefine,
	}
	if cacheHit {
		primaryReq.CachedContent = cachedContentName
		primaryReq.Parts = buildParts(BuildPrimarySuffix(req), nil)
	} else {
		primaryReq.SystemInstruction = persona
		primaryReq.Parts = buildParts(BuildDirective(req, hasImages), req.Assets)
	}
	text, primaryUsage, err := o.callModel(ctx, apiKey, conversationID, "primary", primaryReq)
	if err != nil {
		metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
		return nil, err
	}

	var envelope modelEnvelope
	if err := CoerceJSON(text, &envelope); err != nil {
		metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
		return nil, err
	}
	if !refine.ValidStatus(envelope.Status) {
		metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
		return nil, errors.ErrInvalidModelOutput.WithDetail("模型返回了未知 status")
	}

	previewPrompt := envelope.PreviewPrompt
	perfectedPrompt := envelope.PerfectedPrompt
	assumed := mergeAnswers(envelope.RecommendedAnswers, req.Answers)
	hasQuestions := len(envelope.Questions) > 0

	followup := FollowupInput{
		RawPrompt:         req.RawPrompt,
		Answers:           assumed,
		Family:            req.Family,
		PreviousPreview:   req.PreviousPreviewPrompt,
		PreviousQuestions: req.PreviousQuestions,
		HasImages:         hasImages,
	}

	var previewUsage, finalUsage, previewFallbackUsage *refine.UsageMetadata

	// 主调用声明需要澄清但没给预览时，补一次预览调用
	if envelope.Status == refine.StatusNeedsClarification && hasQuestions && previewPrompt == "" {
		previewReq := port.GenerateRequest{
			Model:          modelName,
			Temperature:    ptr(previewTemperature),
			ThinkingBudget: ptr(minBudget(thinkingBudget, previewBudgetCap)),
			Schema:         port.SchemaPreview,
		}
		if cacheHit {
			previewReq.CachedContent = cachedContentName
			previewReq.Parts = buildParts(BuildPreviewSuffix(followup), nil)
		} else {
			previewReq.SystemInstruction = persona
			previewReq.Parts = buildParts(BuildPreviewDirective(followup), req.Assets)
		}
		metrics.RefineFollowupCalls.WithLabelValues("preview").Inc()
		previewText, usage, err := o.callModel(ctx, apiKey, conversationID, "preview", previewReq)
		if err != nil {
			metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
			return nil, err
		}
		previewUsage = usage
		var pe previewEnvelope
		if err := CoerceJSON(previewText, &pe); err != nil {
			metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
			return nil, err
		}
		if pe.PreviewPrompt != "" {
			previewPrompt = pe.PreviewPrompt
		}
	}

	// 状态为 ready 或根本没有问题、却没给定稿时，补一次定稿调用
	if (envelope.Status == refine.StatusReady || !hasQuestions) && perfectedPrompt == "" {
		finalReq := port.GenerateRequest{
			Model:          modelName,
			Temperature:    ptr(finalTemperature),
			ThinkingBudget: ptr(thinkingBudget),
			Schema:         port.SchemaFinal,
		}
		if cacheHit {
			finalReq.CachedContent = cachedContentName
			finalReq.Parts = buildParts(BuildFinalSuffix(followup), nil)
		} else {
			finalReq.SystemInstruction = persona
			finalReq.Parts = buildParts(BuildFinalDirective(followup), req.Assets)
		}
		metrics.RefineFollowupCalls.WithLabelValues("final").Inc()
		finalText, usage, err := o.callModel(ctx, apiKey, conversationID, "final", finalReq)
		if err != nil {
			metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
			return nil, err
		}
		finalUsage = usage
		var fe finalEnvelope
		if err := CoerceJSON(finalText, &fe); err != nil {
			metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
			return nil, err
		}
		if fe.PerfectedPrompt != "" {
			perfectedPrompt = fe.PerfectedPrompt
		}
	}

	statusOut := envelope.Status
	if !hasQuestions {
		statusOut = refine.StatusReady
	}

	// 最终状态为 ready 却没有定稿：有推定答案时用低预算预览兜底
	// 按最终状态判断，模型带着 questions 返回 ready 时同样适用。
	if statusOut == refine.StatusReady && perfectedPrompt == "" {
		if previewPrompt == "" && len(assumed) > 0 {
			fallbackReq := port.GenerateRequest{
				Model:          modelName,
				Temperature:    ptr(previewFallbackTemperature),
				ThinkingBudget: ptr(minBudget(thinkingBudget, previewFallbackBudgetCap)),
				Schema:         port.SchemaPreview,
			}
			if cacheHit {
				fallbackReq.CachedContent = cachedContentName
				fallbackReq.Parts = buildParts(BuildPreviewSuffix(followup), nil)
			} else {
				fallbackReq.SystemInstruction = persona
				fallbackReq.Parts = buildParts(BuildPreviewDirective(followup), req.Assets)
			}
			metrics.RefineFollowupCalls.WithLabelValues("preview_fallback").Inc()
			fallbackText, usage, err := o.callModel(ctx, apiKey, conversationID, "preview_fallback", fallbackReq)
			if err != nil {
				metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
				return nil, err
			}
			previewFallbackUsage = usage
			var pe previewEnvelope
			if err := CoerceJSON(fallbackText, &pe); err != nil {
				metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
				return nil, err
			}
			if pe.PreviewPrompt != "" {
				previewPrompt = pe.PreviewPrompt
			}
		}
		if perfectedPrompt == "" {
			perfectedPrompt = previewPrompt
		}
		// 所有来路都没能产出 prompt 文本，报错而不是返回空的 ready 结果
		if perfectedPrompt == "" {
			metrics.RefineTotal.WithLabelValues(string(req.Family), "error").Inc()
			return nil, errors.ErrInvalidModelOutput.WithDetail("模型未产出任何 prompt 文本")
		}
	}

	var usageBundle *refine.UsageBundle
	if primaryUsage != nil || previewUsage != nil || finalUsage != nil || previewFallbackUsage != nil {
		usageBundle = &refine.UsageBundle{
			Primary:         primaryUsage,
			Preview:         previewUsage,
			Final:           finalUsage,
			PreviewFallback: previewFallbackUsage,
			Aggregate:       AggregateUsage(primaryUsage, previewUsage, finalUsage, previewFallbackUsage),
		}
	}

	var cacheEcho *refine.CacheEcho
	if cacheHit {
		cacheEcho = &refine.CacheEcho{
			Mode:              "explicit",
			CachedContentName: cachedContentName,
			Key:               key,
			Created:           cacheCreated,
		}
		if !cacheExpireTime.IsZero() {
			cacheEcho.ExpireTime = cacheExpireTime.Format(time.RFC3339)
		}
	} else if primaryUsage != nil {
		cacheEcho = &refine.CacheEcho{
			Mode:            "implicit_only",
			TotalTokenCount: primaryUsage.TotalTokenCount,
		}
	}

	resp := &refine.RefineResponse{
		ConversationID:     conversationID,
		Revision:           revision,
		Status:             statusOut,
		PreviewPrompt:      previewPrompt,
		PerfectedPrompt:    perfectedPrompt,
		Questions:          annotateRecommendedOptions(envelope.Questions, envelope.RecommendedAnswers),
		RecommendedAnswers: envelope.RecommendedAnswers,
		Warnings:           envelope.Warnings,
		Error:              envelope.Error,
		SchemaVersion:      refine.SchemaVersion,
		Usage:              usageBundle,
		Cache:              cacheEcho,
	}

	// 会话仍在澄清中则给缓存续期，已完结按配置清理
	if cacheHit {
		if statusOut == refine.StatusNeedsClarification {
			o.cacheMgr.UpdateTTL(ctx, apiKey, cachedContentName, o.cacheMgr.ResolveTTL(ttlSeconds))
		} else if statusOut == refine.StatusReady && o.cacheMgr.AutoDeleteOnReady() {
			o.cacheMgr.Delete(ctx, apiKey, cachedContentName)
		}
	}

	metrics.RefineTotal.WithLabelValues(string(req.Family), string(statusOut)).Inc()
	metrics.RefineDuration.WithLabelValues(string(req.Family)).Observe(time.Since(start).Seconds())
	return resp, nil
}

func ptr[T any](v T) *T { return &v }
