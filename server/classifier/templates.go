package classifier

import "fmt"

// SuggestedReply returns the canned response for a category, used when the
// conversation should be redirected rather than answered. companyName is
// interpolated into the counseling-scope notice.
func SuggestedReply(category Category, companyName string) string {
	if companyName == "" {
		companyName = "저희"
	}
	switch category {
	case CategoryProfanity:
		return "죄송하지만 정중한 언어로 문의해 주시면 감사하겠습니다. 어떤 도움이 필요하신가요?"
	case CategoryNonCounseling:
		return fmt.Sprintf("죄송하지만 해당 질문은 %s 상담 범위를 벗어납니다. POS 시스템이나 기술적인 문제에 대해 도움을 드릴 수 있습니다.", companyName)
	case CategoryCasual:
		return "안녕하세요! 무엇을 도와드릴까요?"
	default:
		return ""
	}
}
