package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Pipeline runs the classification tiers in fixed order: keyword lookup,
// rule evaluation, hybrid pattern matching, optional LLM fallback. The first
// tier that produces a result wins; when every tier declines, the input is
// classified non_counseling so that unrecognized questions are routed to a
// human rather than guessed at.
type Pipeline struct {
	keywords *KeywordMatcher
	rules    *RuleEngine
	matcher  *Matcher
	fallback FallbackClassifier
	logger   *slog.Logger
}

// NewPipeline assembles the tiers. fallback may be nil when no LLM is
// configured.
func NewPipeline(keywords *KeywordMatcher, rules *RuleEngine, matcher *Matcher, fallback FallbackClassifier, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		keywords: keywords,
		rules:    rules,
		matcher:  matcher,
		fallback: fallback,
		logger:   logger,
	}
}

// Keywords exposes the keyword tier for reloads.
func (p *Pipeline) Keywords() *KeywordMatcher {
	return p.keywords
}

// Rules exposes the rule tier for reloads.
func (p *Pipeline) Rules() *RuleEngine {
	return p.rules
}

// Matcher exposes the hybrid tier for index rebuilds and stats.
func (p *Pipeline) Matcher() *Matcher {
	return p.matcher
}

// Classify assigns a category to text. It always returns a Result; empty
// input classifies as casual with zero confidence.
func (p *Pipeline) Classify(ctx context.Context, text string) *Result {
	start := time.Now()
	input := strings.TrimSpace(text)
	if input == "" {
		return &Result{
			Category:   CategoryNonCounseling,
			Confidence: 0,
			Method:     MethodDefault,
			Reason:     "빈 입력",
		}
	}

	result := p.classify(ctx, input)

	p.logger.Debug("message classified",
		slog.String("category", result.Category.String()),
		slog.String("method", result.Method),
		slog.Float64("confidence", result.Confidence),
		slog.Duration("elapsed", time.Since(start)))

	return result
}

func (p *Pipeline) classify(ctx context.Context, input string) *Result {
	// Tier 1: keyword lookup. Settles the unambiguous cases (profanity,
	// greetings) without touching the index.
	if category, keyword, ok := p.keywords.Match(input); ok {
		return &Result{
			Category:    category,
			Confidence:  0.95,
			Method:      MethodKeyword,
			MatchedText: keyword,
			Reason:      fmt.Sprintf("키워드 '%s' 감지", keyword),
		}
	}

	// Tier 2: curated rules, in priority order.
	if match, ok := p.rules.Evaluate(input); ok {
		return &Result{
			Category:    match.Category,
			Confidence:  0.90,
			Method:      MethodRule,
			MatchedText: match.MatchedText,
			Reason:      fmt.Sprintf("규칙 '%s' 일치", match.MatchedText),
		}
	}

	// Tier 3: hybrid pattern matching against the learned pattern index.
	if match := p.matcher.FindBestMatch(ctx, input, p.matcher.config.Threshold); match != nil {
		return &Result{
			Category:    Category(match.Pattern.Category),
			Confidence:  match.Score,
			Method:      match.Method,
			MatchedText: match.Pattern.Text,
			Score:       match.Score,
			Reason:      fmt.Sprintf("패턴 '%s' 유사도 %.2f", match.Pattern.Text, match.Score),
		}
	}

	// Tier 4: LLM fallback, best-effort. Errors degrade to the default.
	if p.fallback != nil {
		if category, err := p.fallback.ClassifyIntent(ctx, input); err == nil {
			return &Result{
				Category:   category,
				Confidence: 0.7,
				Method:     MethodFallback,
				Reason:     "LLM 분류",
			}
		} else {
			p.logger.Warn("fallback classification failed", slog.Any("error", err))
		}
	}

	return &Result{
		Category:   CategoryNonCounseling,
		Confidence: 0.5,
		Method:     MethodDefault,
		Reason:     "일치하는 패턴 없음",
	}
}
