package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/signintech/gopdf"

	"github.com/gigs-work/backend/internal/domain"
)

type Generator struct {
	pdf      *gopdf.GoPdf
	hasFont  bool
	fontName string
}

// NewGenerator создает новый генератор PDF
func NewGenerator() *Generator {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		PageSize: *gopdf.PageSizeA4,
		Unit:     gopdf.Unit_PT,
	})

	// Получаем текущую рабочую директорию
	wd, _ := os.Getwd()

	// Пробуем добавить TTF шрифт для кириллицы
	// Используем несколько путей для поиска шрифта
	fontPaths := []string{
		filepath.Join(wd, "fonts", "DejaVuSans.ttf"),
		filepath.Join(wd, "backend", "fonts", "DejaVuSans.ttf"),
		"./fonts/DejaVuSans.ttf",
		"./backend/fonts/DejaVuSans.ttf",
		"fonts/DejaVuSans.ttf",
		"backend/fonts/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
		"/Library/Fonts/Arial Unicode.ttf",
	}

	hasFont := false
	fontName := "dejavu"
	loadedPath := ""

	for _, path := range fontPaths {
		// Проверяем, существует ли файл
		if _, err := os.Stat(path); err == nil {
			err := pdf.AddTTFFont(fontName, path)
			if err == nil {
				hasFont = true
				loadedPath = path
				break
			}
		}
	}

	// Логируем результат для отладки
	if hasFont {
		fmt.Printf("✅ PDF: Font loaded from %s\n", loadedPath)
	} else {
		fmt.Printf("⚠️  PDF: Font not found. Searched in: %v\nCurrent working directory: %s\n", fontPaths, wd)
	}

	// Если не удалось загрузить TTF, используем встроенный шрифт
	if !hasFont {
		fontName = ""
	}

	return &Generator{
		pdf:      pdf,
		hasFont:  hasFont,
		fontName: fontName,
	}
}

// GenerateJobPDF генерирует PDF-листовку объявления о подработке
func (g *Generator) GenerateJobPDF(job *domain.Job) ([]byte, error) {
	// Проверяем, загружен ли шрифт
	if !g.hasFont {
		return nil, fmt.Errorf("TTF font not loaded. Please ensure DejaVuSans.ttf is in ./fonts/ directory")
	}

	// Добавляем страницу
	g.pdf.AddPage()

	// Устанавливаем шрифт
	g.pdf.SetFont(g.fontName, "", 14)

	// Заголовок документа
	g.addHeader()

	// Название вакансии
	g.pdf.SetFont(g.fontName, "", 18)
	g.pdf.SetX(50)
	g.pdf.SetY(100)
	g.pdf.Cell(nil, "Вакансия: "+job.Title)

	// Статус
	g.pdf.SetY(g.pdf.GetY() + 30)
	g.pdf.SetX(50)
	g.pdf.SetFont(g.fontName, "", 12)
	g.pdf.Cell(nil, "Статус: "+g.getStatusText(job.Status))

	// Компания
	if job.Company != "" {
		g.addSection("Компания", job.Company)
	}

	// Город
	if job.Location != "" {
		g.addSection("Город", job.Location)
	}

	// Оплата
	if job.Pay != "" {
		g.addSection("Оплата", job.Pay)
	}

	// Описание
	g.pdf.SetY(g.pdf.GetY() + 25)
	g.addSection("Описание", job.Description)

	// Контакты
	if job.ContactEmail != "" {
		g.addSection("Контакты", job.ContactEmail)
	}

	// Дата публикации
	if !job.CreatedAt.IsZero() {
		g.addSection("Опубликовано", job.CreatedAt.Format("02.01.2006"))
	}

	// Футер
	g.addFooter()

	// Получаем bytes
	var buf bytes.Buffer
	_, err := g.pdf.WriteTo(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to output PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// addHeader добавляет заголовок документа
func (g *Generator) addHeader() {
	// Синий прямоугольник
	g.pdf.SetFillColor(59, 130, 246)
	g.pdf.RectFromUpperLeftWithStyle(0, 0, 595, 70, "F")

	// Текст заголовка
	if g.hasFont {
		g.pdf.SetTextColor(255, 255, 255)
		g.pdf.SetFont(g.fontName, "", 24)
		g.pdf.SetX(50)
		g.pdf.SetY(30)
		g.pdf.Cell(nil, "ПОДРАБОТКА")
		// Сбрасываем цвет текста
		g.pdf.SetTextColor(0, 0, 0)
	}
}

// addSection добавляет секцию с заголовком и текстом
func (g *Generator) addSection(title, content string) {
	if !g.hasFont {
		return // Если нет шрифта, пропускаем
	}

	currentY := g.pdf.GetY() + 20

	// Проверяем, не выходим ли за пределы страницы
	if currentY > 750 {
		g.pdf.AddPage()
		currentY = 50
	}

	g.pdf.SetY(currentY)
	g.pdf.SetX(50)

	// Заголовок секции
	g.pdf.SetFont(g.fontName, "", 14)
	g.pdf.SetTextColor(0, 0, 0)
	g.pdf.Cell(nil, title)

	// Контент секции
	g.pdf.SetY(g.pdf.GetY() + 18)
	g.pdf.SetX(50)
	g.pdf.SetFont(g.fontName, "", 11)
	g.pdf.SetTextColor(50, 50, 50)

	// Разбиваем длинный текст на строки
	rect := &gopdf.Rect{W: 500, H: 15}
	g.pdf.MultiCell(rect, content)
}

// addFooter добавляет футер
func (g *Generator) addFooter() {
	if !g.hasFont {
		return // Если нет шрифта, пропускаем
	}

	g.pdf.SetY(780)
	g.pdf.SetX(50)
	g.pdf.SetFont(g.fontName, "", 9)
	g.pdf.SetTextColor(150, 150, 150)
	dateStr := time.Now().Format("02.01.2006")
	g.pdf.Cell(nil, fmt.Sprintf("Документ создан %s", dateStr))
}

// getStatusText возвращает текстовое представление статуса вакансии
func (g *Generator) getStatusText(status domain.JobStatus) string {
	switch status {
	case domain.JobOpen:
		return "Открыта"
	case domain.JobClosed:
		return "Закрыта"
	default:
		return string(status)
	}
}
