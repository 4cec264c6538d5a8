package complete_elapsed

// Report итог одного прохода sweep
type Report struct {
	Scanned   int // Кандидаты с датой не позже сегодняшней
	Completed int // confirmed/active -> completed
	Expired   int // pending -> expired
	Skipped   int // Статус изменился между чтением и обновлением
	Failed    int // Ошибки обновления, бронирование будет обработано в следующем проходе
}

// Changed количество бронирований, сменивших статус
func (r Report) Changed() int {
	return r.Completed + r.Expired
}
