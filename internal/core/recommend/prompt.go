package recommend

import (
	"fmt"
	"strings"
)

// SystemPrompt はレコメンド生成時のペルソナを定義するシステムメッセージ
const SystemPrompt = `You are an enthusiastic podcast expert who loves recommending episodes to people. ` +
	`You will be given context about one podcast episode and a listener's request. ` +
	`Recommend the episode in a short, friendly answer using only the provided context. ` +
	`If the context does not fit the request, say so honestly instead of inventing details.`

// BuildUserPrompt はコンテキストと質問文からユーザーメッセージを構築する
func BuildUserPrompt(contextText, query string) string {
	var sb strings.Builder

	sb.WriteString("## Episode context\n")
	sb.WriteString(contextText)
	sb.WriteString("\n\n")

	sb.WriteString("## Listener request\n")
	sb.WriteString(query)
	sb.WriteString("\n")

	return sb.String()
}

// FormatSource は参照ドキュメントの表示用ヘッダーを整形する
func FormatSource(record MatchRecord) string {
	if record.Title == "" {
		return fmt.Sprintf("関連度: %.4f", record.Similarity)
	}
	return fmt.Sprintf("%s | 関連度: %.4f", record.Title, record.Similarity)
}
