package nlp

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

const similaritySystemPrompt = `You compare two passages from Japanese annual securities reports.
Return JSON only: {"score": <number between 0 and 1>} where 1 means the passages say the same thing.`

const summarySystemPrompt = `You summarize passages from Japanese annual securities reports in Japanese.
Keep the facts, figures and causes. Return JSON only: {"summary": "<summary>"}.`

const sentimentSystemPrompt = `You classify the overall sentiment of a Japanese business passage.
Return JSON only: {"sentiment": "Positive" | "Negative" | "Neutral", "score": <confidence between 0 and 1>}.`

const namedEntitySystemPrompt = `You extract named entities from a Japanese business passage.
Classes: ART (products, technologies, artifacts), PSN (people), LOC (places), ORG (organizations),
DAT (dates), TIM (times), MNY (money), PCT (percentages).
Return JSON only: {"entities": [{"class": "<class>", "form": "<surface form as written>"}]} in order of appearance.`

// attributeVocabulary lists the values the attribute prompt may return per category.
var attributeVocabulary = map[domain.AttributeCategory][]string{
	domain.CategoryAge:              {"0-9歳", "10-19歳", "20-29歳", "30-39歳", "40-49歳", "50-59歳", "60-歳"},
	domain.CategoryCivilStatus:      {"既婚", "未婚"},
	domain.CategoryEarnings:         {"-1M", "1M-3M", "3M-5M", "5M-7M", "7M-9M", "9M-11M", "11M-13M", "13M-15M", "15M-"},
	domain.CategoryGender:           {"男性", "女性"},
	domain.CategoryHabit:            {"SMOKING", "DRINKING", "CAR", "PET"},
	domain.CategoryHobby:            {"ANIMAL", "CAMERA", "COOKING", "FISHING", "FORTUNE", "GAMBLE", "GAME", "GOURMET", "INTERNET", "MOVIE", "MUSIC", "READING", "SHOPPING", "SPORT", "STUDY", "TRAVEL", "VIDEO"},
	domain.CategoryKindOfBusiness:   {"主婦", "会社員", "公務員", "自営業", "学生", "無職"},
	domain.CategoryKindOfOccupation: {"事務", "営業", "技術", "専門職", "経営", "販売・サービス"},
	domain.CategoryLocation:         {"北海道", "東北", "関東", "中部", "近畿", "中国", "四国", "九州", "沖縄"},
	domain.CategoryMoving:           {"WALKING", "CYCLING", "CAR", "TRAIN", "AIRPLANE"},
	domain.CategoryOccupation:       {"会社員", "公務員", "自営業", "学生", "主婦", "パート・アルバイト", "無職"},
	domain.CategoryPosition:         {"経営者・役員", "管理職", "一般社員"},
}

func userAttributeSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You infer the most likely demographic attributes of the author of a Japanese passage.\n")
	b.WriteString("Return JSON only, one key per category you can infer; omit the rest.\n")
	b.WriteString("Single-valued categories take a string, multi-valued categories take a list of strings.\n")
	for _, c := range domain.AllCategories {
		kind := "string"
		if c.MultiValued() {
			kind = "list"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", c, kind, strings.Join(attributeVocabulary[c], ", "))
	}
	return b.String()
}

func similarityUserPrompt(textA, textB string) string {
	return "Passage A:\n" + textA + "\n\nPassage B:\n" + textB
}

func summaryUserPrompt(text string, targetRatio float64) string {
	return fmt.Sprintf("Summarize to about %.0f%% of the original length.\n\n%s", targetRatio*100, text)
}
