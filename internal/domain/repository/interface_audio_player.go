package repository

// PlaybackStateListener 再生状態の変化をコアへ通知するコールバック
type PlaybackStateListener func(isPlaying, isPaused bool)

// PlaybackStateNotifier 再生状態の変化をリスナーへ通知できるプレイヤー
// リスナーはプレイヤー操作中のロックを持たないゴルーチンから呼び出される
type PlaybackStateNotifier interface {
	SetStateListener(listener PlaybackStateListener)
}

// AudioPlayer スポット到着時にナレーションを再生するプレイヤーのインターフェース
// 再生・一時停止はセッション状態を変化させない
type AudioPlayer interface {
	// Play 指定スポットのナレーション再生を開始する
	Play(stopID, narrationRef string) error

	// Pause 再生を一時停止する
	Pause()

	// Resume 一時停止中の再生を再開する
	Resume()

	// Stop 再生を停止する
	Stop()
}
