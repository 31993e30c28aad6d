package extract

import "fmt"

// promptTemplate instructs the model to split multi-request messages, resolve
// first-person references to the inquirer, tag each entry (affiliation
// included) and return due dates either canonical or verbatim. %[1]s is the
// inquirer's display name, %[2]s the cleaned message text.
const promptTemplate = `
以下のテキストから、アカウント申請や作業依頼に関する情報を抽出してください。

【コンテキスト情報】
この問い合わせは「%[1]s」からのものです。
もし「私」や「自分」のアカウント等の言及があれば、対象者を「%[1]s」として扱ってください。
ただし、対象者の氏名やメールアドレスは、メッセージ本文から抽出してください。

【抽出・分類ルール】
1. 1つのメッセージに複数の依頼がある場合は、それぞれを別のエントリとして分割してください。
2. 各エントリについて以下の情報を抽出してください：

【対象者情報】
- target_name: 対象者の氏名（「私」の場合はメッセージ本文から抽出。「%[1]s」を指す可能性が高い）
- target_email: 対象者のメールアドレス（不明な場合はnull）

【タグ情報】
この問い合わせの属性を表すタグを最大5つまで設定してください。
- タグの例：「アカウント管理」「アカウント新規申請登録」「スラック」「課題」「作業依頼」など、問い合わせの種類や内容を表すタグ
- 1つの問い合わせに対して複数のタグを設定できます
  * 例1：アカウント管理の問い合わせ → ["アカウント管理", "アカウント新規申請登録", null, null, null]
  * 例2：Slackに関する改善したい事項の問い合わせ → ["課題", "Slack", null, null, null]
  * 例3：アカウント管理でSlack関連、権限の追加に関する問い合わせ → ["アカウント管理", "権限追加", "Slack", null, null]
- 重要：問い合わせ内に所属を表す情報（例：「営業のAさん」「SREチームのBさん」「コンサルティング部のCさん」など）が明示的に含まれている場合は、その所属情報もタグに含めてください。
  * 例：「営業のAさんのAsanaアカウント追加」→ ["アカウント管理", "新規登録", "Asana", "営業", null]
  * 例：「SREチームのBさんのSlackアカウント作成」→ ["アカウント管理", "新規登録", "スラック", "SREチーム", null]
- tags: タグの配列（最大5つ、不足する場合はnullで埋める。必ず5つの要素を持つ配列として返すこと）

【その他】
- details: 概要・詳細（不明な場合はnull）
- due_date: 対応期日（作業して欲しい期日が明示されている場合のみ記載。明示的な日付（例：「2024-01-31」）の場合はYYYY-MM-DD形式で返す。相対的な表現（例：「１月中」「来月末」「今週末」など）の場合は、そのままの表現で返すこと。不明な場合はnull）

テキスト: %[2]s

必ず以下のJSON配列形式で返答してください（複数の依頼がある場合は配列に複数の要素を含める）:
[
    {
        "target_name": "対象者の氏名またはnull",
        "target_email": "メールアドレスまたはnull",
        "tags": ["タグ1", "タグ2", "タグ3", "タグ4", "タグ5"],
        "details": "概要・詳細またはnull",
        "due_date": "対応期日（明示的な日付の場合はYYYY-MM-DD形式、相対的な表現の場合はそのままの表現、不明な場合はnull）"
    }
]
`

func buildPrompt(text, inquirerName string) string {
	return fmt.Sprintf(promptTemplate, inquirerName, text)
}
