package refresh

import "time"

// Countdown отслеживает время с последнего срабатывания
type Countdown struct {
	Interval time.Duration `json:"interval"`
	Elapsed  time.Duration `json:"elapsed"`
}

// NewCountdown создаёт таймер с заданным интервалом
func NewCountdown(interval time.Duration) Countdown {
	return Countdown{Interval: interval}
}

// Advance добавляет прошедшее время. Отрицательные значения игнорируются.
func (c *Countdown) Advance(d time.Duration) {
	if d > 0 {
		c.Elapsed += d
	}
}

// Ready сообщает, что интервал истёк. Таймер с нулевым интервалом не срабатывает.
func (c *Countdown) Ready() bool {
	return c.Interval > 0 && c.Elapsed >= c.Interval
}

// Reset обнуляет прошедшее время
func (c *Countdown) Reset() {
	c.Elapsed = 0
}

// Remaining возвращает время до срабатывания
func (c Countdown) Remaining() time.Duration {
	if c.Elapsed >= c.Interval {
		return 0
	}
	return c.Interval - c.Elapsed
}
