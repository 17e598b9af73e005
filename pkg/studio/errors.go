package studio

import "errors"

var (
	// ErrNothingToGenerate はプロンプト・スロット画像・シードがすべて空のときに返ります。API は呼び出されません。
	ErrNothingToGenerate = errors.New("生成に必要なプロンプトまたは参照画像がありません")
	// ErrNoOutput は生成が成功したものの画像が1枚も返らなかったときに返ります。
	ErrNoOutput = errors.New("生成は完了しましたが画像データが返されませんでした")

	ErrSeedNotFound        = errors.New("アイデンティティシードが見つかりません")
	ErrGalleryItemNotFound = errors.New("ギャラリー項目が見つかりません")
	ErrNoSeedSource        = errors.New("シードとして保存できる画像がありません")
	ErrEmptyImage          = errors.New("画像データが空です")
	ErrAssistantMissing    = errors.New("チャット機能が設定されていません")
)
