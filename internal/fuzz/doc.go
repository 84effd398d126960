// Package fuzztests houses Go fuzz harnesses for the front half of the meta
// pipeline (source -> lexer -> annotation parser). They guard against panics,
// hangs and coordinate drift on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через FileSet, лексер и парсер
// аннотаций.
//
// Не делает: layout, генерацию заголовка, запись файлов.
package fuzztests
