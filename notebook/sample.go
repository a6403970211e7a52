package notebook

import (
	"math/rand/v2"

	"github.com/cockroachdb/errors"
)

// Pair is one English phrase with its Japanese translation.
type Pair struct {
	English  string
	Japanese string
}

var samplePairs = []Pair{
	{"Good morning", "おはようございます"},
	{"Thank you very much", "ありがとうございます"},
	{"Excuse me", "すみません"},
	{"I'm sorry", "ごめんなさい"},
	{"Nice to meet you", "はじめまして"},
	{"How are you?", "元気ですか？"},
	{"I'm fine", "元気です"},
	{"What's your name?", "お名前は何ですか？"},
	{"My name is...", "私の名前は...です"},
	{"Where are you from?", "どちらの出身ですか？"},
	{"I'm from America", "アメリカ出身です"},
	{"Do you speak English?", "英語を話しますか？"},
	{"I don't understand", "わかりません"},
	{"Please speak slowly", "ゆっくり話してください"},
	{"Can you help me?", "手伝ってもらえますか？"},
	{"Where is the bathroom?", "トイレはどこですか？"},
	{"How much is this?", "これはいくらですか？"},
	{"I would like...", "...をお願いします"},
	{"The weather is nice", "天気がいいですね"},
	{"It's raining", "雨が降っています"},
	{"I'm hungry", "お腹が空いています"},
	{"This is delicious", "これは美味しいです"},
	{"I'm tired", "疲れています"},
	{"See you tomorrow", "また明日"},
	{"Have a good day", "良い一日を"},
	{"What time is it?", "今何時ですか？"},
	{"I'm learning Japanese", "日本語を勉強しています"},
	{"This is difficult", "これは難しいです"},
	{"Let's go", "行きましょう"},
	{"Wait a moment", "ちょっと待ってください"},
	{"I like sushi", "寿司が好きです"},
	{"Where do you live?", "どこに住んでいますか？"},
	{"I live in Tokyo", "東京に住んでいます"},
	{"Do you have time?", "時間はありますか？"},
	{"I'm busy", "忙しいです"},
	{"What's this?", "これは何ですか？"},
	{"I don't know", "知りません"},
	{"That's interesting", "それは面白いですね"},
	{"I agree", "同感です"},
	{"No problem", "問題ありません"},
	{"You're welcome", "どういたしまして"},
	{"Congratulations", "おめでとうございます"},
	{"Happy birthday", "誕生日おめでとう"},
	{"Good luck", "頑張って"},
	{"Take care", "気をつけて"},
	{"I miss you", "あなたが恋しいです"},
	{"I love you", "愛しています"},
	{"Be careful", "注意してください"},
	{"It's hot today", "今日は暑いです"},
	{"It's cold", "寒いです"},
	{"I need help", "助けが必要です"},
	{"Could you please tell me how to get to the nearest train station from here?", "ここから一番近い駅への行き方を教えていただけませんか？"},
	{"I'm looking for a restaurant that serves authentic Japanese cuisine at a reasonable price.", "リーズナブルな価格で本格的な日本料理を提供するレストランを探しています。"},
	{"The cherry blossoms are in full bloom and the scenery is absolutely breathtaking this time of year.", "桜が満開で、この時期の景色は本当に息をのむほど美しいです。"},
	{"I've been studying Japanese for three years, but I still find it challenging to express complex ideas.", "日本語を3年間勉強していますが、複雑な考えを表現するのはまだ難しいと感じています。"},
	{"Would it be possible to schedule a meeting for next Tuesday afternoon around two o'clock?", "来週火曜日の午後2時頃に会議の予定を入れることは可能でしょうか？"},
	{"The technology conference was incredibly informative and I learned about many innovative solutions.", "技術会議は非常に有益で、多くの革新的なソリューションについて学ぶことができました。"},
	{"My hometown is famous for its beautiful mountains, clear rivers, and friendly people.", "私の故郷は美しい山々、澄んだ川、そして親切な人々で有名です。"},
	{"I really appreciate your patience while I practice speaking Japanese with you today.", "今日、あなたと日本語の会話練習をしている間、忍耐強く付き合ってくれて本当に感謝しています。"},
	{"The weather forecast says it will be sunny tomorrow, so let's plan a picnic in the park.", "天気予報では明日は晴れということなので、公園でピクニックを計画しましょう。"},
	{"I'm having difficulty understanding the cultural differences between my country and Japan.", "私の国と日本の文化の違いを理解するのに苦労しています。"},
	{"Could you recommend a good book about Japanese history that's suitable for beginners?", "初心者に適した日本史についての良い本を推薦していただけませんか？"},
	{"The presentation went very well and everyone seemed interested in our new product proposal.", "プレゼンテーションは非常にうまくいき、皆が私たちの新製品提案に興味を示しているようでした。"},
	{"I enjoy cooking traditional dishes from various countries and learning about different cultures.", "さまざまな国の伝統的な料理を作り、異なる文化について学ぶことを楽しんでいます。"},
	{"The train was delayed due to heavy snow, so I arrived at the office thirty minutes late.", "大雪のため電車が遅れ、オフィスに30分遅れて到着しました。"},
	{"My dream is to travel around the world and experience different cultures and cuisines.", "私の夢は世界中を旅して、さまざまな文化や料理を体験することです。"},
	{"The museum exhibition about ancient Japanese art was fascinating and very educational.", "古代日本美術についての博物館の展示は魅力的で、とても教育的でした。"},
	{"I'm grateful for the opportunity to work with such a talented and dedicated team.", "このような才能豊かで献身的なチームと働く機会をいただけて感謝しています。"},
	{"Learning a foreign language requires consistent practice and patience with yourself.", "外国語を学ぶには、継続的な練習と自分自身への忍耐が必要です。"},
	{"The festival was crowded but the atmosphere was lively and everyone seemed to be enjoying themselves.", "祭りは混雑していましたが、雰囲気は活気に満ちており、皆楽しんでいるようでした。"},
	{"I'm planning to take a vacation next month and visit some famous temples and shrines in Kyoto.", "来月休暇を取って、京都の有名な寺院や神社をいくつか訪れる予定です。"},
}

// Sample returns the built-in phrase pairs.
func Sample() []Pair {
	return append([]Pair(nil), samplePairs...)
}

// Generate adds n notes picked at random from the sample pairs to the
// notebook.
func Generate(store *Store, nbID string, n int) ([]Note, error) {
	notes := make([]Note, 0, n)
	for i := 0; i < n; i++ {
		p := samplePairs[rand.IntN(len(samplePairs))]
		note, err := store.AddNote(nbID, p.English, p.Japanese)
		if err != nil {
			return notes, errors.Wrapf(err, "generate note %d of %d", i+1, n)
		}
		notes = append(notes, note)
	}
	return notes, nil
}
