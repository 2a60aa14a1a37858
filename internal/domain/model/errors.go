package model

import "errors"

// セッション操作の論理エラー
// 呼び出し側は errors.Is で判別し、既存セッションを壊さずにリカバリする
var (
	// ErrSessionAlreadyActive アクティブなセッションがある状態でstartを呼んだ
	ErrSessionAlreadyActive = errors.New("アクティブなセッションが既に存在します")

	// ErrNoActiveSession アクティブなセッションがない状態で終了・操作を呼んだ
	ErrNoActiveSession = errors.New("アクティブなセッションが存在しません")

	// ErrNoSnapshot 再開可能なスナップショットが保存されていない
	ErrNoSnapshot = errors.New("再開可能なスナップショットがありません")

	// ErrRouteNotFound 指定されたルートがデータストアに存在しない
	ErrRouteNotFound = errors.New("指定されたルートが見つかりません")

	// ErrInvalidRouteData ルートデータが不正（スポットなし・座標が範囲外など）
	ErrInvalidRouteData = errors.New("ルートデータが不正です")

	// ErrInvalidLocation リクエストの座標がWGS84の有効範囲外
	ErrInvalidLocation = errors.New("座標が有効範囲外です")
)
