package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージをスペイン語に翻訳します。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"catalystId":           "ID del catalizador",
	"catalystName":         "Nombre del catalizador",
	"notes":                "Notas",
	"photo":                "Foto",
	"priority":             "Prioridad",
	"avatarUrl":            "Avatar",
	"notificationsEnabled": "Notificaciones",
	"progressPercentage":   "Porcentaje de progreso",
	"completedTasks":       "Tareas completadas",
	"totalTasks":           "Total de tareas",
	"week":                 "Semana",
	"id":                   "ID",
}

func fieldName(fe validator.FieldError) string {
	if name, ok := fieldNameTranslations[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	spanish := es.New()
	uni := ut.New(spanish, spanish)
	var found bool
	Trans, found = uni.GetTranslator("es")
	if !found {
		log.Fatal("translator not found")
	}

	if err := es_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	// フィールド名をスペイン語に置き換えて上書き
	override := func(tag, msg string, withParam bool) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			if withParam {
				t, _ := ut.T(tag, fieldName(fe), fe.Param())
				return t
			}
			t, _ := ut.T(tag, fieldName(fe))
			return t
		})
	}

	override("required", "{0} es obligatorio.", false)
	override("max", "{0} debe tener como máximo {1}.", true)
	override("min", "{0} debe ser como mínimo {1}.", true)
	override("oneof", "{0} debe ser uno de [{1}].", true)
	override("startswith", "{0} debe comenzar con '{1}'.", true)
}
