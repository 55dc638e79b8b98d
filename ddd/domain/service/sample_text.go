package service

import (
	"fmt"
	"math"
	"strings"

	"snipx-service/ddd/domain/vo"
)

// sampleTexts 无转写服务或转写失败时使用的示例字幕文本
var sampleTexts = map[string]string{
	"en": "Welcome to this video. Today we walk through the main ideas step by step. " +
		"Take your time, pause whenever you need, and try each example on your own. " +
		"Thanks for watching and see you in the next one.",
	"ur": "اس ویڈیو میں خوش آمدید۔ آج ہم اہم خیالات کو مرحلہ وار دیکھیں گے۔ " +
		"اپنا وقت لیں اور ہر مثال خود آزمائیں۔ دیکھنے کا شکریہ۔",
	"ru-ur": "Is video mein khush aamdeed. Aaj hum ahem khayalat ko marhala waar dekhenge. " +
		"Apna waqt lein aur har misaal khud aazmayein. Dekhne ka shukriya.",
	"ar": "مرحبا بكم في هذا الفيديو. اليوم نستعرض الأفكار الرئيسية خطوة بخطوة. " +
		"خذ وقتك وجرب كل مثال بنفسك. شكرا للمشاهدة.",
	"hi": "इस वीडियो में आपका स्वागत है। आज हम मुख्य बातों को एक एक करके देखेंगे। " +
		"अपना समय लें और हर उदाहरण खुद आज़माएँ। देखने के लिए धन्यवाद।",
	"es": "Bienvenidos a este video. Hoy repasamos las ideas principales paso a paso. " +
		"Tómate tu tiempo y prueba cada ejemplo por tu cuenta. Gracias por vernos.",
	"fr": "Bienvenue dans cette vidéo. Aujourd'hui nous parcourons les idées principales étape par étape. " +
		"Prenez votre temps et essayez chaque exemple vous-même. Merci de votre attention.",
	"de": "Willkommen zu diesem Video. Heute gehen wir die wichtigsten Ideen Schritt für Schritt durch. " +
		"Nimm dir Zeit und probiere jedes Beispiel selbst aus. Danke fürs Zuschauen.",
	"zh": "欢迎 观看 本期 视频 。 今天 我们 一步 一步 讲解 主要 内容 。 " +
		"请 慢慢 来 ， 每个 例子 都 自己 试 一下 。 感谢 观看 。",
	"ja": "この 動画 へ ようこそ 。 今日 は 主な ポイント を 順番 に 説明 します 。 " +
		"ゆっくり 進めて 、 それぞれ の 例 を 試して ください 。 ご視聴 ありがとう ございました 。",
	"ko": "이 영상에 오신 것을 환영합니다. 오늘은 핵심 내용을 차근차근 살펴보겠습니다. " +
		"천천히 따라 하면서 각 예제를 직접 해 보세요. 시청해 주셔서 감사합니다.",
	"pt": "Bem-vindos a este vídeo. Hoje vamos ver as ideias principais passo a passo. " +
		"Vá com calma e experimente cada exemplo por conta própria. Obrigado por assistir.",
	"ru": "Добро пожаловать в это видео. Сегодня мы шаг за шагом разберём основные идеи. " +
		"Не торопитесь и попробуйте каждый пример сами. Спасибо за просмотр.",
	"it": "Benvenuti in questo video. Oggi vediamo le idee principali passo dopo passo. " +
		"Prenditi il tuo tempo e prova ogni esempio da solo. Grazie per la visione.",
	"tr": "Bu videoya hoş geldiniz. Bugün ana fikirleri adım adım inceleyeceğiz. " +
		"Acele etmeyin ve her örneği kendiniz deneyin. İzlediğiniz için teşekkürler.",
	"nl": "Welkom bij deze video. Vandaag lopen we de belangrijkste ideeën stap voor stap door. " +
		"Neem de tijd en probeer elk voorbeeld zelf. Bedankt voor het kijken.",
}

// complexScriptLanguages get shorter chunks.
var complexScriptLanguages = map[string]struct{}{
	"ur": {}, "ar": {}, "hi": {}, "zh": {}, "ja": {}, "ko": {},
}

const (
	wordsPerChunk              = 8
	wordsPerChunkComplexScript = 6
)

// SampleText returns the sample text for language, falling back to English.
// The second result reports whether language had its own entry.
func SampleText(language string) (string, bool) {
	if text, ok := sampleTexts[language]; ok {
		return text, true
	}
	return sampleTexts[vo.DefaultSubtitleLanguage], false
}

// SupportedSampleLanguages lists the language codes with sample text.
func SupportedSampleLanguages() []string {
	langs := make([]string, 0, len(sampleTexts))
	for k := range sampleTexts {
		langs = append(langs, k)
	}
	return langs
}

// ChunkWords splits text on whitespace into chunks sized for language.
func ChunkWords(text, language string) []string {
	size := wordsPerChunk
	if _, ok := complexScriptLanguages[language]; ok {
		size = wordsPerChunkComplexScript
	}
	words := strings.Fields(text)
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// DistributeEvenly gives each chunk an equal share of duration.
func DistributeEvenly(chunks []string, duration float64) []vo.TranscriptSegment {
	if len(chunks) == 0 {
		return nil
	}
	step := duration / float64(len(chunks))
	segs := make([]vo.TranscriptSegment, len(chunks))
	for i, c := range chunks {
		segs[i] = vo.TranscriptSegment{
			Start: float64(i) * step,
			End:   float64(i+1) * step,
			Text:  c,
		}
	}
	return segs
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Seconds are rounded to the
// nearest millisecond first so the fields never disagree.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int64(math.Round(seconds * 1000))
	h := totalMs / 3_600_000
	m := (totalMs % 3_600_000) / 60_000
	s := (totalMs % 60_000) / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// RenderSRT writes one block per segment: index, time range, text, blank line.
func RenderSRT(segments []vo.SubtitleSegment) string {
	var b strings.Builder
	for _, s := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", s.ID, FormatTimestamp(s.Start), FormatTimestamp(s.End), s.Text)
	}
	return b.String()
}
