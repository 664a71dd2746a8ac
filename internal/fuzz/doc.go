// Package fuzztests houses Go fuzz harnesses that drive the prefix walk
// through the Go frontend on arbitrary input. Its goal is to smoke test
// robustness: no panics escape, no prefix hangs, and every snapshot keeps
// its structural invariants.
//
// Назначение: прогонять байты через prefix.Iterate + gofront и проверять
// инварианты снимков через testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/prefix, internal/analysis, internal/frontend/gofront,
// internal/testkit.

package fuzztests
