package models

// checklistTemplate is the 11-phase playbook a customer checklist is
// instantiated from. Kept unexported; NewChecklist hands out fresh copies.
var checklistTemplate = []ChecklistPhase{
	{Name: "反響対応（初回問い合わせ）", Items: []ChecklistItem{
		{Title: "問い合わせ内容を正確に記録", Detail: "氏名・連絡先・希望条件・問い合わせ経路を記録", Ref: "DAY3"},
		{Title: "初回返信（5分以内目標）", Detail: "迅速かつ丁寧な返信。自己紹介と次のステップを提案", Ref: "DAY3"},
		{Title: "お客様の温度感を把握", Detail: "購入時期・緊急度・他社検討状況をヒアリング", Ref: "DAY3"},
		{Title: "希望条件の概要把握", Detail: "エリア・価格帯・間取り・こだわりポイントを確認", Ref: "DAY3"},
		{Title: "CRM/顧客管理への登録", Detail: "お客様情報をシステムに登録し管理開始", Ref: "DAY3"},
		{Title: "次回アクションの設定", Detail: "面談日程の提案または次回連絡日を約束", Ref: "DAY3"},
		{Title: "お礼メール送信", Detail: "問い合わせへのお礼と有益な情報を添えたメール", Ref: "DAY3"},
	}},
	{Name: "面談・案内準備", Items: []ChecklistItem{
		{Title: "お客様情報の事前リサーチ", Detail: "勤務先・年収推定・家族構成から最適提案を準備", Ref: "DAY4"},
		{Title: "希望エリアの相場調査", Detail: "直近の成約事例・相場推移・将来性を調査", Ref: "DAY4"},
		{Title: "提案物件の事前選定（3〜5件）", Detail: "お客様の条件に合う物件を複数ピックアップ", Ref: "DAY4"},
		{Title: "物件資料の準備", Detail: "図面・写真・周辺情報をまとめた資料を作成", Ref: "DAY4"},
		{Title: "住宅ローンの事前シミュレーション", Detail: "想定借入額・月々返済額・金利タイプ別の比較", Ref: "DAY4"},
		{Title: "面談場所・オンライン環境の確認", Detail: "対面の場合は場所予約、オンラインはURL送付", Ref: "DAY4"},
		{Title: "アジェンダの作成", Detail: "面談の流れ・確認事項・提案内容をリスト化", Ref: "DAY4"},
		{Title: "リマインド連絡", Detail: "面談前日にリマインドメール or メッセージ", Ref: "DAY4"},
		{Title: "競合物件・他社情報の把握", Detail: "同エリアの競合物件や他社の動向を確認", Ref: "DAY4"},
		{Title: "質問リストの準備", Detail: "お客様に確認すべき深掘り質問を準備", Ref: "DAY4"},
	}},
	{Name: "初回商談", Items: []ChecklistItem{
		{Title: "自己紹介とサービス説明", Detail: "TERASSの強み・自分の実績・サポート体制を説明", Ref: "DAY5"},
		{Title: "お客様の購入動機の深掘り", Detail: "なぜ今購入を考えているか、背景を丁寧にヒアリング", Ref: "DAY5"},
		{Title: "資金計画の概要説明", Detail: "購入に必要な費用の全体像を説明", Ref: "DAY5"},
		{Title: "ライフプランのヒアリング", Detail: "将来の家族計画・転職予定・教育方針を確認", Ref: "DAY5"},
		{Title: "購入の流れ説明", Detail: "物件探し→内見→申込→契約→決済の流れを図解", Ref: "DAY5"},
		{Title: "希望条件の優先順位付け", Detail: "MUST条件とWANT条件を分けて整理", Ref: "DAY5"},
		{Title: "次回のアクションプラン提示", Detail: "物件見学の日程・準備事項を具体的に提案", Ref: "DAY5"},
		{Title: "面談議事録の作成・共有", Detail: "話した内容をまとめてお客様に共有", Ref: "DAY5"},
		{Title: "お礼・フォローメール", Detail: "面談のお礼と次のステップを記載したメール送付", Ref: "DAY5"},
	}},
	{Name: "ヒアリング（ニーズ把握）", Items: []ChecklistItem{
		{Title: "現在の住まいの不満点", Detail: "今の住まいで困っていること・改善したい点", Ref: "DAY5"},
		{Title: "理想の暮らしイメージ", Detail: "休日の過ごし方・通勤時間・子育て環境など", Ref: "DAY5"},
		{Title: "絶対に譲れない条件", Detail: "立地・間取り・設備のマスト条件を明確化", Ref: "DAY5"},
		{Title: "妥協できるポイント", Detail: "優先度が低い条件を把握して選択肢を広げる", Ref: "DAY5"},
		{Title: "世帯年収・貯蓄の確認", Detail: "無理のない予算設定のために正確に把握", Ref: "DAY5"},
		{Title: "住宅ローンの事前審査状況", Detail: "審査済み/未着手/不安要素を確認", Ref: "DAY5"},
		{Title: "購入希望時期の確認", Detail: "引越し希望日から逆算してスケジュール作成", Ref: "DAY5"},
		{Title: "配偶者・家族の意向確認", Detail: "決定権者は誰か、家族の意見を確認", Ref: "DAY5"},
		{Title: "ヒアリングシートの完成", Detail: "全情報を体系的に整理して社内共有", Ref: "DAY5"},
	}},
	{Name: "物件案内", Items: []ChecklistItem{
		{Title: "内見スケジュール調整", Detail: "候補物件3〜5件の効率的な内見ルート作成", Ref: "DAY6"},
		{Title: "各物件のメリット・デメリット整理", Detail: "お客様の条件に照らした客観的な比較表", Ref: "DAY6"},
		{Title: "周辺環境の下見", Detail: "スーパー・学校・病院・駅までの実際の動線確認", Ref: "DAY6"},
		{Title: "内見時のチェックポイント説明", Detail: "確認すべき構造・設備・日当たりなどをガイド", Ref: "DAY6"},
		{Title: "内見後の感想ヒアリング", Detail: "各物件の印象・気になった点を詳しく確認", Ref: "DAY6"},
		{Title: "比較検討資料の作成", Detail: "内見物件の比較表を作成しお客様に送付", Ref: "DAY6"},
		{Title: "追加物件の提案", Detail: "フィードバックを踏まえた新たな候補物件の提案", Ref: "DAY6"},
	}},
	{Name: "プレゼン・提案", Items: []ChecklistItem{
		{Title: "最終候補物件の絞り込み", Detail: "お客様と一緒に2〜3件に絞り込む", Ref: "DAY7"},
		{Title: "詳細な資金計画書の作成", Detail: "物件価格・諸費用・ローンシミュレーション", Ref: "DAY7"},
		{Title: "住宅ローン比較表", Detail: "金融機関別の金利・条件・審査基準の比較", Ref: "DAY7"},
		{Title: "ライフプランシミュレーション", Detail: "将来の収支を含めた長期的な資金計画", Ref: "DAY7"},
		{Title: "物件の将来価値分析", Detail: "エリアの発展性・資産価値の見通し", Ref: "DAY7"},
		{Title: "リスク説明", Detail: "購入に伴うリスクと対策を正直に説明", Ref: "DAY7"},
		{Title: "決断サポート", Detail: "迷っているポイントを整理し判断材料を提供", Ref: "DAY7"},
	}},
	{Name: "購入手順説明", Items: []ChecklistItem{
		{Title: "購入申込書の説明", Detail: "申込の意味・拘束力・キャンセルの可否", Ref: "DAY8"},
		{Title: "手付金の説明", Detail: "金額の目安・支払いタイミング・返還条件", Ref: "DAY8"},
		{Title: "住宅ローン本審査の手続き", Detail: "必要書類・審査期間・注意点を説明", Ref: "DAY8"},
		{Title: "重要事項説明の予告", Detail: "重説の内容・確認ポイントを事前に説明", Ref: "DAY8"},
		{Title: "契約日程の調整", Detail: "売主・買主・司法書士のスケジュール調整", Ref: "DAY8"},
		{Title: "必要書類リストの送付", Detail: "契約に必要な書類一覧をお客様に送付", Ref: "DAY8"},
	}},
	{Name: "重説・契約", Items: []ChecklistItem{
		{Title: "重要事項説明書の事前チェック", Detail: "記載内容の確認・お客様への説明準備", Ref: "DAY9"},
		{Title: "契約書の事前チェック", Detail: "特約条項・引渡し条件・瑕疵担保の確認", Ref: "DAY9"},
		{Title: "重要事項説明の実施", Detail: "法定の重要事項をわかりやすく説明", Ref: "DAY9"},
		{Title: "売買契約の締結", Detail: "契約書への署名捺印・手付金の授受", Ref: "DAY9"},
		{Title: "住宅ローン正式申込", Detail: "金融機関への正式な融資申込手続き", Ref: "DAY9"},
		{Title: "契約後のスケジュール共有", Detail: "決済日までの流れとタスクを共有", Ref: "DAY9"},
	}},
	{Name: "決済・引渡し", Items: []ChecklistItem{
		{Title: "融資実行の確認", Detail: "金融機関からの融資実行日・金額の最終確認", Ref: "DAY10"},
		{Title: "残金決済の準備", Detail: "必要書類・振込先・金額の最終確認", Ref: "DAY10"},
		{Title: "物件の最終確認（引渡し前内覧）", Detail: "契約時と相違ないか現地確認", Ref: "DAY10"},
		{Title: "鍵の引渡し", Detail: "鍵の受領・本数確認・管理説明", Ref: "DAY10"},
		{Title: "引越し後の届出サポート", Detail: "住所変更・転居届など必要手続きの案内", Ref: "DAY10"},
	}},
	{Name: "アフターフォロー", Items: []ChecklistItem{
		{Title: "引渡し後1週間フォロー", Detail: "不具合や困りごとがないか確認の連絡", Ref: "DAY11"},
		{Title: "引渡し後1ヶ月フォロー", Detail: "生活の中での気づき・相談に対応", Ref: "DAY11"},
		{Title: "確定申告のリマインド", Detail: "住宅ローン控除の申請方法と時期を案内", Ref: "DAY11"},
		{Title: "定期的な状況確認", Detail: "半年〜1年ごとに近況確認の連絡", Ref: "DAY11"},
		{Title: "紹介依頼", Detail: "満足いただけたら周りの方のご紹介をお願い", Ref: "DAY11"},
		{Title: "お客様の声の収集", Detail: "レビューやアンケートのお願い", Ref: "DAY11"},
	}},
	{Name: "追客（検討中顧客対応）", Items: []ChecklistItem{
		{Title: "定期的な情報提供", Detail: "新着物件・相場情報・お役立ち記事を送付", Ref: "DAY11"},
		{Title: "ステータスの定期確認", Detail: "購入意欲の変化・状況の変化をヒアリング", Ref: "DAY11"},
		{Title: "イベント・セミナー案内", Detail: "住宅購入セミナーや内見会の案内", Ref: "DAY11"},
		{Title: "条件変更のヒアリング", Detail: "時間経過による希望条件の変化を確認", Ref: "DAY11"},
		{Title: "再アプローチのタイミング判断", Detail: "引越し時期・ライフイベントからベストタイミングを判断", Ref: "DAY11"},
	}},
}

// NewChecklist builds a fresh checklist from the template with all items
// unchecked.
func NewChecklist() []ChecklistPhase {
	out := make([]ChecklistPhase, len(checklistTemplate))
	for i, phase := range checklistTemplate {
		items := make([]ChecklistItem, len(phase.Items))
		copy(items, phase.Items)
		out[i] = ChecklistPhase{Name: phase.Name, Items: items}
	}
	return out
}

// ChecklistTemplate returns a copy of the template for the console.
func ChecklistTemplate() []ChecklistPhase {
	return NewChecklist()
}
